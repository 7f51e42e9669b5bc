// Package browser provides the browser capability the registrar drives
// through Playwright.
//
// The package is built around three pieces:
//
//  1. Page/Element: the narrow interface surface adapters and analyzers
//     program against. Tests substitute in-memory fakes here.
//  2. Session: one Playwright browser/context/page triple implementing Page.
//  3. SessionManager: registry owning the Playwright runtime and all
//     active sessions.
//
// # Attempt ownership
//
// Each registration attempt exclusively owns one session. The registrar
// holds no cross-attempt state, so attempts may run concurrently as long
// as each gets its own session. Closing a session while a stage is
// in flight makes that stage's browser calls fail, which the pipeline
// converts to an adapter error rather than hanging.
//
// # Waiting semantics
//
// WaitForSelector and WaitForNavigation are bounded. A selector wait
// timing out is a soft signal (the element is treated as absent); callers
// decide whether absence is fatal. The initial page navigation is the only
// hard-timeout operation.
package browser
