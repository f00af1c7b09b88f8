// Package research provides the SSRF-guarded web fetch tool and the
// CDP-driven browser automation tools (navigate, extract, screenshot,
// click, type, close) used by job-board discovery and application prep.
//
// Tools:
//   - web_fetch: Fetch a URL through the SSRF guard and convert to markdown
//   - browser_navigate, browser_extract, browser_screenshot,
//     browser_click, browser_type, browser_close: Rod-driven browser session
package research
