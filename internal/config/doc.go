// Package config provides configuration parsing for the vangotest harness
// and CLI.
//
// The configuration is stored in vangotest.json (or vangotest.yaml) at the
// project root:
//
//	{
//	  "logLevel": "info",
//	  "clock": {"start": "2024-01-01T00:00:00Z"},
//	  "inspector": {"addr": "localhost:7357"},
//	  "metrics": {"namespace": "vangotest"},
//	  "archive": {
//	    "backend": "disk",
//	    "dir": "testdata/snapshots"
//	  }
//	}
//
// Archive backends are "memory", "disk", "s3" (bucket, prefix, region) and
// "sqlite" (dsn).
package config
