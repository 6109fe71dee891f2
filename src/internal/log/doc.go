// Package log provides simple leveled console logging for urlresolver.
//
// Messages carry a colored level prefix: DEBUG (only with -verbose), INFO,
// WARN and ERROR. Errors always go to stderr; everything else goes to stdout
// unless SetForceStdErr(true) is set, which is what the resolve command does
// when the rendered configuration itself is streamed to stdout.
//
// Example:
//
//	log.Infof("Processed domain: %s", host)
//	log.Debugf("A lookup for %s failed: %v", host, err)
//
//	if err != nil {
//	    log.Fatalf("Input file not found: %s", path) // Exits with code 1
//	}
//
// Tests capture output with SetOutput:
//
//	var out, errOut bytes.Buffer
//	restore := log.SetOutput(&out, &errOut)
//	defer restore()
package log
