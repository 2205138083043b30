// Package janitor removes stale downloads from the web service's output
// directory.
//
// Paths being written or moved are registered in a shared Reservations set;
// a sweep skips them, and so does the file server.
//
//	res := janitor.NewReservations()
//	j := janitor.New(dir, 30*time.Minute, time.Hour, res, logger)
//	go j.Run(ctx)
package janitor
