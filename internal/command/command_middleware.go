package command

// Middleware wraps a handler (logging, rate limiting, access checks).
type Middleware func(Handler) Handler

// Apply wraps h so that the first middleware in mws is the outermost.
func Apply(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
