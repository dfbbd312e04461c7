package port

// ProgressFunc observes a long-running build. done counts finished units of
// work out of total. It must not affect the build.
type ProgressFunc func(done, total int)

// Report calls fn when it is set.
func (fn ProgressFunc) Report(done, total int) {
	if fn != nil {
		fn(done, total)
	}
}
