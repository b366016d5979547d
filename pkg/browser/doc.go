// Package browser drives a real browser through Playwright.
//
// A Manager owns the Playwright runtime and one browser, context and page.
// Launch returns a Backend bound to that page which implements
// driver.Backend:
//
//	m := browser.NewManager(browser.Options{Headless: true})
//	if err := m.Initialize(); err != nil {
//		return err
//	}
//	defer m.Shutdown()
//
//	backend, err := m.Launch()
//	if err != nil {
//		return err
//	}
//	session := driver.NewSession(backend)
//
// # Locators
//
// css selector and xpath locators map onto Playwright's "css=" and "xpath="
// selector engines. A recursion locator walks its ancestor chain, scoping
// each step to the element matched by the previous one, so every link of
// the chain keeps its own strategy.
//
// Commands act on the first matching element.
package browser
