// This file is part of Syncline.
//
// Syncline is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Syncline is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Syncline.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/syncline/digest"
	"github.com/jetsetilly/syncline/environment"
	"github.com/jetsetilly/syncline/framebuffer"
	"github.com/jetsetilly/syncline/gui"
	"github.com/jetsetilly/syncline/gui/ebitenmonitor"
	"github.com/jetsetilly/syncline/gui/sdlmonitor"
	"github.com/jetsetilly/syncline/gui/termmonitor"
	"github.com/jetsetilly/syncline/hardware"
	"github.com/jetsetilly/syncline/hardware/mcu/cycles"
	"github.com/jetsetilly/syncline/hardware/vga/profile"
	"github.com/jetsetilly/syncline/logger"
	"github.com/jetsetilly/syncline/modalflag"
	"github.com/jetsetilly/syncline/monitor"
	"github.com/jetsetilly/syncline/monitor/renderers"
	"github.com/jetsetilly/syncline/paths"
	"github.com/jetsetilly/syncline/pixelator"
	"github.com/jetsetilly/syncline/prefs"
	"github.com/jetsetilly/syncline/statsview"
	"github.com/jetsetilly/syncline/verify"
	"github.com/jetsetilly/syncline/version"
	"github.com/jetsetilly/syncline/wavwriter"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when the mode handles the
	// interrupt signal itself.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args any
}

// communication between the main() function and the launch() function. this
// is required because the window toolkits (notably SDL) require window event
// handling (including creation) to occur on the main thread.
type mainSync struct {
	state chan stateRequest

	// functions sent on the display channel are run on the main thread. the
	// result of the function is returned on the result channel
	display chan func() error
	result  chan error
}

// #mainthread
func main() {
	sync := &mainSync{
		state:   make(chan stateRequest),
		display: make(chan func() error),
		result:  make(chan error),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// #ctrlc default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	// launch program as a go routine. further communication is through the
	// mainSync instance
	go launch(sync, os.Args[1:])

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case fn := <-sync.display:
			sync.result <- fn()

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	fmt.Print("\r")
	os.Exit(exitVal)
}

// the modes of the program. the first mode is the default
var modes = []string{"RUN", "CAPTURE", "VERIFY", "CONVERT", "ANALYSE", "PROFILES", "VERSION"}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate gui creation and to quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes(modes...)

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	err = dispatch(md, sync, os.Stdout)
	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

func dispatch(md *modalflag.Modes, sync *mainSync, out io.Writer) error {
	switch md.Mode() {
	case "RUN":
		return run(md, sync, out)
	case "CAPTURE":
		return capture(md, out)
	case "VERIFY":
		return verification(md, out)
	case "CONVERT":
		return convert(md, out)
	case "ANALYSE":
		return analyse(md, out)
	case "PROFILES":
		return profiles(md, out)
	case "VERSION":
		return showVersion(md, out)
	}
	return nil
}

// flags common to the modes that run a board
type boardFlags struct {
	profile *string
	prefs   *string
	log     *bool
}

func addBoardFlags(md *modalflag.Modes) boardFlags {
	return boardFlags{
		profile: md.AddString("profile", "", fmt.Sprintf("timing profile: %s", strings.Join(profile.IDs(), ", "))),
		prefs:   md.AddString("prefs", "", "preferences for this run only. for example \"hardware.limit::false; gui.scale::3\""),
		log:     md.AddBool("log", false, "echo log to stdout"),
	}
}

// the environment, profile and cost table for the flags. preferences given on
// the command line are pushed onto the command line stack before the
// preferences are loaded
func (f boardFlags) setup(out io.Writer) (*environment.Environment, profile.Profile, cycles.Table, error) {
	if *f.log {
		logger.SetEcho(logger.NewColorizer(out), false)
	} else {
		logger.SetEcho(nil, false)
	}

	prefs.PushCommandLineStack(*f.prefs)
	defer prefs.PopCommandLineStack()

	env, err := environment.NewEnvironment(environment.MainEmulation, nil)
	if err != nil {
		return nil, profile.Profile{}, cycles.Table{}, err
	}

	var p profile.Profile
	if *f.profile != "" {
		p, err = profile.Lookup(*f.profile)
	} else {
		p, err = env.Prefs.ProfileValue()
	}
	if err != nil {
		return nil, profile.Profile{}, cycles.Table{}, err
	}

	tab, err := env.Prefs.CostsValue()
	if err != nil {
		return nil, profile.Profile{}, cycles.Table{}, err
	}

	return env, p, tab, nil
}

// flags that select the contents of the framebuffer
type pictureFlags struct {
	image     *string
	pattern   *string
	threshold *int
}

func addPictureFlags(md *modalflag.Modes) pictureFlags {
	return pictureFlags{
		image:     md.AddString("image", "", "image or raw framebuffer file (.bin) to display"),
		pattern:   md.AddChoice("pattern", "border", framebuffer.PatternNames(), "test pattern shown when no image is given"),
		threshold: md.AddInt("threshold", pixelator.AutoThreshold, "threshold for serial profiles (0 to 255). -1 is automatic"),
	}
}

func (f pictureFlags) framebuffer(p profile.Profile) (*framebuffer.Framebuffer, error) {
	if *f.image == "" {
		return framebuffer.Pattern(p, *f.pattern)
	}

	if strings.EqualFold(filepath.Ext(*f.image), ".bin") {
		return framebuffer.Load(p, *f.image)
	}

	img, err := pixelator.Open(*f.image)
	if err != nil {
		return nil, err
	}

	opts := pixelator.DefaultOptions
	opts.Threshold = *f.threshold
	res, err := pixelator.Convert(img, p, opts)
	if err != nil {
		return nil, err
	}

	return res.Framebuffer, nil
}

func noArguments(md *modalflag.Modes) error {
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}
	return nil
}

func run(md *modalflag.Modes, sync *mainSync, out io.Writer) error {
	md.NewMode()

	bf := addBoardFlags(md)
	pf := addPictureFlags(md)
	display := md.AddChoice("gui", "prefs", []string{"prefs", "ebiten", "sdl", "term"}, "display to use")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := noArguments(md); err != nil {
		return err
	}

	env, prf, tab, err := bf.setup(out)
	if err != nil {
		return err
	}

	fb, err := pf.framebuffer(prf)
	if err != nil {
		return err
	}

	if *stats {
		stop := statsview.Launch(out)
		defer stop()
	}

	b, err := hardware.NewBoard(env, prf, tab, fb.Data)
	if err != nil {
		return err
	}
	b.SetLimit(env.Prefs.Live.Limit.Load())

	mon := monitor.NewMonitor(env, prf.ClockHz)
	b.AddSink(mon)

	g := gui.NewGUI(fmt.Sprintf("%s %s", version.ApplicationName, prf.ID), env.Prefs.Scale.Get().(int))
	g.Nudge = b.Nudge
	mon.AddRenderer(g)

	disp := *display
	if disp == "prefs" {
		disp = env.Prefs.GUI.String()
	}

	var launcher func() error
	switch disp {
	case "sdl":
		launcher = func() error { return sdlmonitor.Launch(g) }
	case "term":
		launcher = func() error { return termmonitor.Launch(g, os.Stdout) }
	default:
		launcher = func() error { return ebitenmonitor.Launch(g) }
	}

	// the interrupt signal ends the board and the display closes when the
	// board ends
	sync.state <- stateRequest{req: reqNoIntSig}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	boardErr := make(chan error, 1)
	go func() {
		boardErr <- b.Run(ctx, 0)
		close(g.End)
	}()

	go func() {
		select {
		case <-g.Quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	sync.display <- launcher
	err = <-sync.result
	cancel()

	if berr := <-boardErr; berr != nil {
		return berr
	}
	if err != nil {
		return err
	}

	logger.Logf(env, "run", "%d frames rendered, %d dropped by the display", g.Rendered(), g.Dropped())

	return env.Prefs.Save()
}

func capture(md *modalflag.Modes, out io.Writer) error {
	md.NewMode()

	bf := addBoardFlags(md)
	pf := addPictureFlags(md)
	frames := md.AddInt("frames", 4, "number of frames to run")
	png := md.AddString("png", "", "save the last synchronised frame as a PNG")
	wav := md.AddString("wav", "", "save the wire signal as a WAV file")
	dig := md.AddBool("digest", false, "print a digest of the video and of the wire signal")
	md.AdditionalHelp("if none of -png, -wav or -digest are given a PNG is saved with a unique filename")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := noArguments(md); err != nil {
		return err
	}

	env, prf, tab, err := bf.setup(out)
	if err != nil {
		return err
	}

	fb, err := pf.framebuffer(prf)
	if err != nil {
		return err
	}

	b, err := hardware.NewBoard(env, prf, tab, fb.Data)
	if err != nil {
		return err
	}

	mon := monitor.NewMonitor(env, prf.ClockHz)
	b.AddSink(mon)

	if *png == "" && *wav == "" && !*dig {
		*png = paths.UniqueFilename("capture", prf.ID, "png")
	}

	var imr *renderers.Image
	if *png != "" {
		imr = renderers.NewImage()
		mon.AddRenderer(imr)
	}

	var ww *wavwriter.WavWriter
	if *wav != "" {
		ww, err = wavwriter.New(env, *wav, int(prf.ClockHz))
		if err != nil {
			return err
		}
		b.AddSink(ww)
	}

	var vd *digest.Video
	var sd *digest.Signal
	if *dig {
		vd = digest.NewVideo()
		mon.AddRenderer(vd)
		sd = digest.NewSignal()
		b.AddSink(sd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = b.Run(ctx, max(*frames, 1))
	if ww != nil {
		if cerr := ww.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, mon)

	if imr != nil {
		if err := imr.Save(*png); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved frame to %s\n", *png)
	}

	if ww != nil {
		fmt.Fprintf(out, "saved %d samples to %s\n", ww.Samples(), *wav)
	}

	if sd != nil {
		sd.Flush()
		fmt.Fprintf(out, "video  %s (%d frames)\n", vd.Hash(), vd.Frames())
		fmt.Fprintf(out, "signal %s\n", sd.Hash())
	}

	return nil
}

func verification(md *modalflag.Modes, out io.Writer) error {
	md.NewMode()

	bf := addBoardFlags(md)
	pf := addPictureFlags(md)
	frames := md.AddInt("frames", verify.DefaultFrames, fmt.Sprintf("length of the bench run (at least %d)", verify.MinFrames))
	static := md.AddBool("static", false, "only run the static checks")
	md.AdditionalHelp("the profile can be \"all\" to verify every profile")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := noArguments(md); err != nil {
		return err
	}

	all := strings.EqualFold(*bf.profile, "all")
	if all {
		*bf.profile = ""
	}

	env, prf, tab, err := bf.setup(out)
	if err != nil {
		return err
	}

	list := []profile.Profile{prf}
	if all {
		list = profile.All()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var failed int
	for i, prf := range list {
		var fb *framebuffer.Framebuffer
		if !*static {
			fb, err = pf.framebuffer(prf)
			if err != nil {
				return err
			}
		}

		r, err := verify.Verify(ctx, env, prf, tab, fb, *frames)
		if err != nil {
			return err
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := r.Render(out); err != nil {
			return err
		}

		if !r.Passed() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d profiles failed verification", failed, len(list))
	}

	return nil
}

func convert(md *modalflag.Modes, out io.Writer) error {
	md.NewMode()

	prf := md.AddString("profile", profile.Default.ID, fmt.Sprintf("timing profile: %s", strings.Join(profile.IDs(), ", ")))
	threshold := md.AddInt("threshold", pixelator.AutoThreshold, "threshold for serial profiles (0 to 255). -1 is automatic")
	header := md.AddString("header", "", "write the framebuffer as a C header")
	output := md.AddString("out", "", "write the raw framebuffer")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("image file required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	pr, err := profile.Lookup(*prf)
	if err != nil {
		return err
	}

	img, err := pixelator.Open(md.GetArg(0))
	if err != nil {
		return err
	}

	opts := pixelator.DefaultOptions
	opts.Threshold = *threshold
	res, err := pixelator.Convert(img, pr, opts)
	if err != nil {
		return err
	}

	if *output == "" && *header == "" {
		*output = paths.UniqueFilename("framebuffer", pr.ID, "bin")
	}

	if *output != "" {
		if err := res.Framebuffer.Save(*output); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved framebuffer to %s\n", *output)
	}

	if *header != "" {
		f, err := os.Create(*header)
		if err != nil {
			return err
		}
		err = pixelator.WriteHeader(f, res.Framebuffer)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved header to %s\n", *header)
	}

	fmt.Fprintf(out, "%dx%d %d pixels lit", res.Framebuffer.Width(), res.Framebuffer.Height(), res.Framebuffer.Lit())
	if pr.Channel == profile.Serial {
		fmt.Fprintf(out, " (threshold %d)", res.Threshold)
	}
	fmt.Fprintln(out)

	return nil
}

func analyse(md *modalflag.Modes, out io.Writer) error {
	md.NewMode()

	rate := md.AddFloat64("rate", 0, "samples per second. zero uses the rate in the file")
	png := md.AddString("png", "", "save the last synchronised frame as a PNG")
	log := md.AddBool("log", false, "echo log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("wav file required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if *log {
		logger.SetEcho(logger.NewColorizer(out), false)
	}

	r, closer, err := wavwriter.OpenReplay(md.GetArg(0))
	if err != nil {
		return err
	}
	defer closer()

	if *rate <= 0 {
		*rate = float64(r.SampleRate)
	}

	mon := monitor.NewMonitor(logger.Allow, *rate)

	var imr *renderers.Image
	if *png != "" {
		imr = renderers.NewImage()
		mon.AddRenderer(imr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	n, err := r.Run(ctx, mon)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d samples of %d channels at %.0fHz\n", n, r.NumChans, *rate)

	if !mon.IsSynced() {
		fmt.Fprintln(out, "no sync")
		return nil
	}

	info := mon.LastFrame()
	fmt.Fprintln(out, info)
	if info.Matched {
		fmt.Fprintln(out, info.Mode)
	}

	if imr != nil {
		if err := imr.Save(*png); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved frame to %s\n", *png)
	}

	return nil
}

func profiles(md *modalflag.Modes, out io.Writer) error {
	md.NewMode()

	wiring := md.AddBool("wiring", false, "show the wiring for each profile")
	plan := md.AddBool("plan", false, "show the burst plan for each profile")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := noArguments(md); err != nil {
		return err
	}

	for _, prf := range profile.All() {
		fmt.Fprintln(out, prf.Summary())
		if *plan {
			b, err := hardware.NewBoard(logger.Deny, prf, cycles.ATmega328P_16MHz, make([]uint8, prf.FramebufferSize()))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, b.Engine.Plan)
		}
		if *wiring {
			fmt.Fprint(out, hardware.WiringSummary(prf.Channel))
		}
	}

	return nil
}

func showVersion(md *modalflag.Modes, out io.Writer) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	fmt.Fprintln(out, version.Banner())
	if *revision {
		_, rev, _ := version.Version()
		fmt.Fprintln(out, rev)
	}

	return nil
}
