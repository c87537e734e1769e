// Package session provides the scoped acquisition/teardown around the
// ephemeris engine's process-wide global mutable state (ephemeris
// path, sidereal mode, topocentric origin). Exactly one Session may
// be open per process at a time; Open blocks until any other session
// has closed.
//
// Grounded on SwissContext's __enter__/__exit__ pair
// (original_source/.../swiss/manager.py): this package is that same
// scoped-acquisition shape translated to Go's explicit Open/Close.
package session

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vedicgo/panchanga/calibration"
	"github.com/vedicgo/panchanga/ephemeris"
)

var globalEngineLock sync.Mutex

// Site is the geographic location a Session installs as the
// topocentric origin (when enabled) and hands to its Provider.
type Site struct {
	Lon   float64
	Lat   float64
	AltM  float64
}

// Session is a scoped holder of (Calibration, Site, engine handle).
// Open acquires the process-wide engine mutex and installs sidereal
// mode / topocentric origin per Calibration; Close guarantees
// teardown — including topocentric reset, if configured — and always
// releases the mutex, even if the caller's work panics.
type Session struct {
	oracle    ephemeris.Oracle
	cal       calibration.Calibration
	site      Site
	topoUsed  bool
	closed    bool
}

// Open acquires the engine lock and configures it for cal/site,
// returning an open Session and a freshly-constructed Provider. The
// caller must call Close exactly once, typically via defer, to
// release the lock and run teardown — a deferred Close also runs when
// the caller panics:
//
//	sess, prov, err := session.Open(oracle, cal, site, ephePath)
//	if err != nil { ... }
//	defer sess.Close()
func Open(oracle ephemeris.Oracle, cal calibration.Calibration, site Site, ephePath string) (*Session, *ephemeris.Provider, error) {
	globalEngineLock.Lock()

	s := &Session{oracle: oracle, cal: cal, site: site}

	oracle.SetEphePath(ephePath)

	if cal.Zodiac == calibration.Sidereal {
		oracle.SetSidMode(ephemeris.SidMode(cal.Ayanamsa.Mode), cal.Ayanamsa.T0, cal.Ayanamsa.AyanT0)
	}

	if cal.Perspective == calibration.Topocentric && cal.Topo.Enabled {
		oracle.SetTopo(site.Lon, site.Lat, site.AltM)
		s.topoUsed = true
	}

	provider := ephemeris.NewProvider(oracle, cal, site.Lon, site.Lat, site.AltM)
	return s, provider, nil
}

// Close tears down the session: if topocentric origin was installed
// and Calibration.ResetTopoOnExit is set, resets it to (0,0,0); in all
// cases releases the engine mutex. Close is idempotent — a second call
// is a no-op rather than a double-unlock.
//
// No teardown of sidereal mode is performed: the next session
// overwrites it on entry, so leaving it installed is harmless residue,
// not a correctness risk.
func (s *Session) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	defer globalEngineLock.Unlock()

	if s.topoUsed && s.cal.ResetTopoOnExit {
		s.oracle.SetTopo(0, 0, 0)
	}
	return nil
}

// Run opens a session, invokes fn with its Provider, and closes the
// session unconditionally (including on panic), forwarding fn's error.
// This is the recommended entry point for one-shot callers that don't
// need to hold the session open across multiple operations.
func Run(oracle ephemeris.Oracle, cal calibration.Calibration, site Site, ephePath string, fn func(*ephemeris.Provider) error) (err error) {
	sess, provider, openErr := Open(oracle, cal, site, ephePath)
	if openErr != nil {
		return errors.Wrap(openErr, "session: open failed")
	}
	defer func() {
		closeErr := sess.Close()
		if err == nil {
			err = closeErr
		}
	}()
	return fn(provider)
}
