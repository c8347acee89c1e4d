// Package smartbroker retrieves account and securities portfolio data from
// the Smartbroker banking portal. The portal exposes no API, only
// server-rendered HTML pages behind a cookie-based session, so this package
// is a scraping client: it authenticates, navigates a fixed sequence of
// pages, and parses locale-formatted HTML tables into typed records.
//
// The core functionalities include:
//   - Session Management: one authenticated session per Client, with an
//     explicit lifecycle (login, list, logout) and a closed set of failure
//     kinds (connection, authentication, parse).
//   - HTML Parsing: the accounts overview and the per-depot holdings pages
//     are parsed into Account and Position values, with German
//     decimal/thousands separators converted with numeric fidelity.
//   - Data Persistence: scraped snapshots can be appended to a
//     human-readable, version-controllable JSONL history.
//
// This package serves as the foundational logic for the `sbk` command-line
// tool. It performs no retries and owns no credentials: retry policy and
// credential storage belong to the caller.
package smartbroker
