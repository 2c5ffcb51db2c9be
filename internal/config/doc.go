// Package config provides configuration parsing for pagetree projects.
//
// The configuration is stored in pagetree.json next to the application:
//
//	{
//	  "root": "site",
//	  "port": 8080,
//	  "dev": true,
//	  "props": {
//	    "values": {"siteName": "Docs"},
//	    "root": {"lang": "en"}
//	  },
//	  "metrics": {"addr": ":9090"},
//	  "tracing": {"enabled": true},
//	  "export": {"dir": "dist"}
//	}
//
// Relative paths are resolved against the file's directory.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
