// Package dev runs a pagetree application with automatic restarts.
//
// The runner watches the project, regenerates the catalog when a code
// artifact changes, rebuilds the binary when Go source changes and then
// restarts the process. Route discovery happens once per process, so
// stylesheet and script artifacts only need a restart.
//
// Browsers reload themselves: the application is started with --dev, its
// pages connect to the live reload endpoint, and a new process announces a
// new boot id (see internal/livereload).
//
// # Usage
//
//	r, err := dev.NewRunner(dev.Options{
//	    ProjectDir: ".",
//	    Root:       "site",
//	})
//	if err != nil {
//	    return err
//	}
//	return r.Run(ctx)
package dev
