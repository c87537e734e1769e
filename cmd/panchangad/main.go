// Command panchangad prints the tithi, nakshatra, yoga, and
// sunrise-anchored nakshatra boundaries in effect for a place and
// moment, using the deterministic reforacle.Oracle in place of a real
// ephemeris engine binding.
//
// Demonstrates the calibration -> session -> finder/sunrise surface
// end to end for a ground observer.
package main

import (
	"fmt"
	"time"

	"github.com/vedicgo/panchanga/calibration"
	"github.com/vedicgo/panchanga/ephemeris"
	"github.com/vedicgo/panchanga/finder"
	"github.com/vedicgo/panchanga/panchanga"
	"github.com/vedicgo/panchanga/reforacle"
	"github.com/vedicgo/panchanga/session"
	"github.com/vedicgo/panchanga/sunrise"
	"github.com/vedicgo/panchanga/timescale"
)

func main() {
	// Ujjain, the traditional reference meridian, IST (UTC+5:30).
	lat, lon := 23.1765, 75.7885
	const tz = 5.5

	oracle := reforacle.New()
	cal := calibration.Default()
	site := session.Site{Lon: lon, Lat: lat, AltM: 0}

	now := time.Date(2024, 6, 21, 6, 0, 0, 0, time.UTC)
	jdUT := timescale.TimeToJDUTC(now)

	err := session.Run(oracle, cal, site, "", func(p *ephemeris.Provider) error {
		sLon, sSpd, err := p.PlanetLonSpeed(jdUT, ephemeris.BodySun)
		if err != nil {
			return err
		}
		mLon, mSpd, err := p.PlanetLonSpeed(jdUT, ephemeris.BodyMoon)
		if err != nil {
			return err
		}

		tithiIdx, _ := panchanga.Tithi(mLon, mSpd, sLon, sSpd)
		nakIdx, _ := panchanga.Nakshatra(mLon, mSpd)
		yogaIdx, _ := panchanga.Yoga(mLon, mSpd, sLon, sSpd)
		pada := panchanga.NakshatraPadaFromLongitude(mLon)

		fmt.Printf("Panchanga for %s (UT), lat %.4f lon %.4f:\n", now.Format("2006-01-02 15:04"), lat, lon)
		fmt.Printf("  Tithi index:     %.4f\n", tithiIdx)
		fmt.Printf("  Nakshatra index: %.4f\n", nakIdx)
		fmt.Printf("  Yoga index:      %.4f\n", yogaIdx)
		_, rDeg, rMin, rSec := pada.RemainderAngle().DMS()
		fmt.Printf("  Nakshatra/pada:  %d / %d (remainder %d°%02d'%05.2f\")\n", pada.NakNo, pada.PadaNo, rDeg, rMin, rSec)

		tithiEnd, err := finder.NextTithiEnd(p, jdUT, finder.Params{})
		if err != nil {
			return err
		}
		nakEnd, err := finder.NextNakshatraEnd(p, jdUT, finder.Params{})
		if err != nil {
			return err
		}
		yogaEnd, err := finder.NextYogaEnd(p, jdUT, finder.Params{})
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("  Tithi ends at     JD %.6f (%s)\n", tithiEnd.Root, jdToTime(tithiEnd.Root).Format("Mon Jan 02 15:04 MST"))
		fmt.Printf("  Nakshatra ends at JD %.6f (%s)\n", nakEnd.Root, jdToTime(nakEnd.Root).Format("Mon Jan 02 15:04 MST"))
		fmt.Printf("  Yoga ends at      JD %.6f (%s)\n", yogaEnd.Root, jdToTime(yogaEnd.Root).Format("Mon Jan 02 15:04 MST"))

		sunriseFn := func(jdUTC float64) (float64, error) {
			jd, status, err := p.RiseSet(jdUTC, ephemeris.BodySun, true, ephemeris.RiseSetOverride{})
			if err != nil {
				return 0, err
			}
			if status != 0 {
				return 0, fmt.Errorf("panchangad: sun does not rise at this site/date")
			}
			return jd, nil
		}

		anchored, err := sunrise.NextNakshatraEnds(p, sunriseFn, jdUT, tz)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("  Sunrise-anchored: nakshatra %d/%d ends at %.2fh local, next ends at %.2fh local\n",
			anchored.Current.NakNo, anchored.Current.PadaNo, anchored.CurrentEndHours, anchored.NextEndHours)
		return nil
	})
	if err != nil {
		panic(err)
	}
}

func jdToTime(jd float64) time.Time {
	unixSeconds := (jd - 2440587.5) * timescale.SecPerDay
	return time.Unix(int64(unixSeconds), 0).UTC()
}
