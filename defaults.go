// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package doeff

// defaultHandlerChain returns the engine's built-in handlers, tried after
// every scoped and root handler has delegated (§4.3, §4.4). Each handles
// a disjoint effect family and delegates everything else, so their
// relative order here is not semantically significant.
func defaultHandlerChain() []Handler {
	return []Handler{
		readerHandler,
		stateHandler,
		writerHandler,
		ioHandler,
		awaitHandler,
		timeHandler,
		concurrencyHandler,
		semaphoreHandler,
	}
}
