package service

// Hook is a lifecycle callback. Hooks are expected to return promptly:
// long-running work belongs on a goroutine owned by the hook, which then
// reports completion through the controller notify methods.
type Hook = func() error
