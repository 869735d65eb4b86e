// Package provision creates accounts on the forum service and collects
// their login tokens.
//
// A run walks the sequence numbers Start..Start+Count-1 strictly in order.
// For each one it signs up "<prefix><seq:05d>", logs in with the same
// credential and keeps data.token from the login response. Failures of
// either request are reported to the Observer and never stop the loop.
// After every ThrottleEvery iterations the loop sleeps for ThrottlePause,
// counting from Start.
//
//	p := provision.New(config.Default(), provision.WithObserver(reporter))
//	res, err := p.Run(ctx)
//	if err != nil { ... }
//	tokenfile.Write("tokens.txt", res.Tokens)
package provision
