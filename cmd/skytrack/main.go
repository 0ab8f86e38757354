// Command skytrack tracks a celestial target and drives an antenna rotor
// and/or a remotely controllable receiver: rotor moves are checked against
// travel limits, the radio is tuned to the Doppler-corrected frequency,
// and AOS/LOS crossings are announced.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/w1xm/skytrack/pointing"
	"github.com/w1xm/skytrack/radio"
	"github.com/w1xm/skytrack/rotor"
	"github.com/w1xm/skytrack/sequencer"
	"github.com/w1xm/skytrack/track"
	"github.com/w1xm/skytrack/transport"
)

var (
	body       = flag.String("body", "", "solar system body to track (see -listbodies)")
	listBodies = flag.Bool("listbodies", false, "list supported bodies and exit")
	tleFile    = flag.String("tle-file", "", "NORAD two-line element file for satellite tracking")
	tleName    = flag.String("tle-name", "", "satellite name to select within -tle-file")
	ra         = flag.String("ra", "", "target right ascension (decimal degrees or #h#m#s)")
	dec        = flag.String("dec", "", "target declination (decimal degrees or #d#m#s)")
	azCorrect  = flag.Float64("azcorrect", 0, "degrees to add to the calculated azimuth (e.g. magnetic vs. true north)")

	lat  = flag.Float64("lat", -999, "observer latitude in decimal degrees")
	long = flag.Float64("long", -999, "observer longitude in decimal degrees")
	alt  = flag.Float64("alt", 0, "observer altitude in meters")

	freq         = flag.Float64("freq", 0, "target frequency in Hz; enables Doppler correction")
	radioAddr    = flag.String("radio", "", "gqrx/gpredict-compatible host:port for frequency control")
	sdrsharpAddr = flag.String("sdrsharp", "", "SDRSharp NetRemote host:port for frequency control")
	sendAosLos   = flag.Bool("send-aos-los", false, "send AOS/LOS messages to the radio on threshold crossings")
	aosElevation = flag.Float64("aos-elevation", 10, "AOS/LOS elevation boundary in degrees")

	delay        = flag.Duration("delay", 30*time.Second, "time between radio and rotor updates")
	rotorPort    = flag.String("rotor", "", "rotor controller: host:port, device path (via rotctl), or serial:/dev/...")
	rotorModel   = flag.Int("rotor-type", 2, "rotctl rotor model number (2 is hamlib net)")
	rotorBaud    = flag.Int("rotor-baud", 9600, "rotor serial baud rate")
	rotorDialect = flag.String("rotor-dialect", "hamlib", "rotor command dialect: hamlib or easycomm")

	leftLimit      = flag.Float64("left-limit", -1, "rotor left travel limit in degrees")
	rightLimit     = flag.Float64("right-limit", -1, "rotor right travel limit in degrees")
	elevationLimit = flag.Float64("elevation-limit", -1, "rotor elevation travel limit in degrees")

	utcDate = flag.String("utcdate", "", "fixed UTC date/time (year/month/day hh:mm:ss) instead of now")

	seqPort = flag.String("sequencer", "", "modbus RTU sequencer serial port, keyed on AOS/LOS")
	seqBaud = flag.Int("sequencer-baud", 19200, "sequencer baud rate")

	listenAddr = flag.String("listen", "", "address for the status HTTP server (e.g. 127.0.0.1:8502)")
)

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}

// pickSource builds the position source from the target flags. Exactly
// one of -body, -tle-file, or -ra/-dec must be given.
func pickSource() (pointing.Source, string) {
	given := 0
	for _, set := range []bool{*body != "", *tleFile != "", *ra != "" || *dec != ""} {
		if set {
			given++
		}
	}
	if given != 1 {
		fatalf("exactly one target is required: -body, -tle-file, or -ra/-dec")
	}
	switch {
	case *body != "":
		src, err := pointing.NewNovasSource(*body, *lat, *long, *alt)
		if err != nil {
			fatalf("%v", err)
		}
		return src, *body
	case *tleFile != "":
		title, line1, line2, err := pointing.LoadTLE(*tleFile, *tleName)
		if err != nil {
			fatalf("%v", err)
		}
		if title == "" {
			title = *tleName
		}
		return pointing.NewTLESource(title, line1, line2, *lat, *long, *alt), title
	default:
		if *ra == "" || *dec == "" {
			fatalf("both -ra and -dec are required")
		}
		src, err := pointing.NewRADecSource(*ra, *dec, *lat, *long, *azCorrect)
		if err != nil {
			fatalf("%v", err)
		}
		return src, fmt.Sprintf("RA %s / Dec %s", *ra, *dec)
	}
}

func parseUTCDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006/01/02 15:04:05", "2006/1/2 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q; expected year/month/day hh:mm:ss", s)
}

func main() {
	flag.Parse()

	if *listBodies {
		for _, name := range pointing.Bodies() {
			fmt.Println(name)
		}
		return
	}
	if *lat == -999 || *long == -999 {
		fatalf("latitude and longitude are required")
	}

	src, target := pickSource()

	limits, err := rotor.ParseLimits(*leftLimit, *rightLimit, *elevationLimit)
	if err != nil {
		fatalf("%v", err)
	}

	var fixed time.Time
	if *utcDate != "" {
		fixed, err = parseUTCDate(*utcDate)
		if err != nil {
			fatalf("%v", err)
		}
	}

	var rotorLink *rotor.Link
	if *rotorPort != "" {
		dialect, err := rotor.ParseDialect(*rotorDialect)
		if err != nil {
			fatalf("%v", err)
		}
		t, err := transport.Open(*rotorPort, transport.Options{Model: *rotorModel, Baud: *rotorBaud})
		if err != nil {
			fatalf("rotor port: %v", err)
		}
		rotorLink = rotor.NewLink(t, limits, dialect)
	}

	var radioLink *radio.Link
	protocol, addr := radio.GQRX, *radioAddr
	if *sdrsharpAddr != "" {
		protocol, addr = radio.SDRSharp, *sdrsharpAddr
	}
	if addr != "" {
		if *freq == 0 {
			fatalf("a frequency must be provided in radio mode")
		}
		radioLink = radio.NewLink(transport.NewSocket(addr), protocol)
	}

	var seq track.Sequencer
	if *seqPort != "" {
		seq = sequencer.New(*seqPort, *seqBaud)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	server := NewServer()
	loop := track.NewLoop(track.Config{
		Target:         target,
		Interval:       *delay,
		FreqHz:         *freq,
		SendAosLos:     *sendAosLos,
		AosElevation:   *aosElevation,
		FixedTime:      fixed,
		StatusCallback: server.statusCallback,
	}, src, rotorLink, radioLink, seq)

	g, ctx := errgroup.WithContext(ctx)
	if *listenAddr != "" {
		g.Go(func() error {
			return server.ListenAndServe(ctx, *listenAddr)
		})
	}
	g.Go(func() error {
		defer stop()
		return loop.Run(ctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
