// Package commands provides the built-in command catalog.
//
// Every command enqueues a single action on the session. The action turns
// its selector argument into a driver.Locator under the locate strategy
// that is live when it runs, so targeted invocations see the strategy the
// wrapper switched to.
//
// Commands that declare a callback slot report their result to the
// callback. A failure delivered to a callback is recorded on the session
// error log and the queue continues; without a callback the failure stops
// the queue.
//
// Assertions come in three namespaces:
//
//	assert.visible(selector, [message])   failure stops the queue
//	verify.visible(selector, [message])   failure is recorded, queue continues
//	expect.visible(selector)              returns an *Expectation
package commands
