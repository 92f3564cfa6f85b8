// Package files provides file system helpers for the data directory.
//
// Discovery lists the yearly accident files present under a base directory.
// Manager writes export files atomically relative to a base path.
//
//	discovery := files.NewDiscovery(cfg.Data.BaseDir)
//	years, err := discovery.AvailableYears()
//
//	manager := files.NewManager("")
//	err = manager.WriteFile("out/summary.csv", func(w io.Writer) error { ... })
package files
