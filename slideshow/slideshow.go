/*
DESCRIPTION
  slideshow.go provides Slideshow, which connects the front and rear sensors,
  runs each skeleton frame through subject selection, navigation, highlight
  and view mode updates, and draws the result on a surface.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package slideshow provides a gesture driven picture slideshow. The nearest
// tracked person navigates the pictures with left and right swipes; while
// nobody is tracked the rear camera feed is shown instead.
package slideshow

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
	"github.com/fsnotify/fsnotify"

	"github.com/ausocean/slideshow/device"
	"github.com/ausocean/slideshow/gesture"
	"github.com/ausocean/slideshow/navigation"
	"github.com/ausocean/slideshow/render"
	"github.com/ausocean/slideshow/skeleton"
	"github.com/ausocean/slideshow/slideshow/config"
	"github.com/ausocean/slideshow/tracking"
)

// Used to indicate package in logging.
const pkg = "slideshow: "

// Frame queue timing.
const (
	poolWriteTimeout = 10 * time.Millisecond // Wait before dropping the oldest queued skeleton frame.
	poolReadTimeout  = 10 * time.Millisecond // Poll period of the processing routine.
	emptyColorDelay  = 10 * time.Millisecond // Backoff after the rear sensor has no frame.
)

// errQuit ends a sensor reader that has been asked to stop.
var errQuit = errors.New("reader stopped")

// Status describes whether the sensors are connected.
type Status struct {
	Disconnected bool

	// Reason is a human readable description of why the sensors are
	// disconnected. It is empty for a deliberate disconnection.
	Reason string
}

// Slideshow owns the sensors and all per frame state. It is constructed once
// and passed explicitly to whatever drives it.
//
// Navigation, selection and highlight state is only mutated by
// HandleSkeletons. When running, HandleSkeletons and HandleColor are called
// from a single processing goroutine fed by one reader goroutine per sensor.
type Slideshow struct {
	cfg     config.Config
	log     logging.Logger
	reg     *device.Registry
	surface render.Surface
	nav     *navigation.Navigator
	rec     gesture.Recognizer
	hands   render.HandConfig
	now     func() time.Time

	// connMu serialises Connect and Disconnect.
	connMu  sync.Mutex
	front   device.SkeletonSource
	rear    device.ColorSource
	quit    chan struct{} // Closed to stop the readers of the current connection.
	readers sync.WaitGroup

	// mu guards status and listeners.
	mu        sync.Mutex
	status    Status
	listeners []func(Status)

	// Frame pipeline state, owned by the processing goroutine.
	subjects  []skeleton.Subject
	nearest   int
	highlight tracking.Highlight
	present   bool

	// skeletons queues raw frame lines from the front sensor reader.
	skeletons *pool.Buffer
	colors    chan *device.ColorFrame

	running  bool
	done     chan struct{}
	wg       sync.WaitGroup // Processing routine.
	watching sync.WaitGroup // Device watch routine.
	watcher  *fsnotify.Watcher
}

// New returns a Slideshow showing the pictures of l on surf, using sensors
// from reg selected by the FrontID and RearID fields of c. If rec is nil a
// gesture.Swipe configured from c is used. The config is validated, with bad
// or unset fields defaulted.
func New(c config.Config, reg *device.Registry, l navigation.Loader, surf render.Surface, rec gesture.Recognizer) (*Slideshow, error) {
	if c.Logger == nil {
		return nil, errors.New("config has no logger")
	}
	err := c.Validate()
	if err != nil {
		return nil, fmt.Errorf("could not validate config: %w", err)
	}
	if reg == nil {
		reg = device.NewRegistry()
	}
	if rec == nil {
		rec = gesture.NewSwipe(gesture.Config{
			MinDistance: c.SwipeDistance,
			MaxDrift:    c.SwipeDrift,
			Window:      c.SwipeWindow,
			Lockout:     c.SwipeLockout,
		})
	}

	s := &Slideshow{
		cfg:       c,
		log:       c.Logger,
		reg:       reg,
		surface:   surf,
		rec:       rec,
		hands:     render.HandConfig{Width: int(c.Width), Height: int(c.Height), RangeX: c.HandRangeX, RangeY: c.HandRangeY},
		now:       time.Now,
		status:    Status{Disconnected: true},
		nearest:   skeleton.NoID,
		highlight: tracking.NoHighlight,
		skeletons: pool.NewBuffer(int(c.FrameBuffer), skeleton.MaxLine, poolWriteTimeout),
		colors:    make(chan *device.ColorFrame, c.FrameBuffer),
	}

	s.nav = navigation.New(l)
	s.nav.Subscribe(func(st navigation.State) {
		s.surface.ShowPictures(st.Previous, st.Current, st.Next)
		s.log.Debug(pkg+"navigated", "index", st.Index)
	})
	st := s.nav.State()
	surf.ShowPictures(st.Previous, st.Current, st.Next)
	surf.SetMode(tracking.LiveFeed)
	surf.ShowDisconnected(true, "")
	return s, nil
}

// Config returns a copy of the slideshow's config.
func (s *Slideshow) Config() config.Config { return s.cfg }

// Navigator returns the navigator driven by the slideshow.
func (s *Slideshow) Navigator() *navigation.Navigator { return s.nav }

// Nearest returns the tracking ID of the subject selected in the last frame,
// or skeleton.NoID.
func (s *Slideshow) Nearest() int { return s.nearest }

// Highlight returns the current highlight.
func (s *Slideshow) Highlight() tracking.Highlight { return s.highlight }

// HandleSkeletons processes one skeleton frame. A nil frame is one the
// sensor could not provide and is ignored. In order it
//  1. copies the subjects into the subject buffer, resizing it if the
//     sensor's subject capacity changed,
//  2. selects the nearest subject,
//  3. sets the view mode from the presence of tracked subjects,
//  4. resets navigation if the last tracked subject was lost,
//  5. passes the frame to the recognizer, advancing or retreating for
//     swipes by the nearest subject,
//  6. draws every tracked subject and
//  7. places the hand markers of the nearest subject.
func (s *Slideshow) HandleSkeletons(f *skeleton.Frame) {
	if f == nil {
		return
	}

	if len(s.subjects) != len(f.Subjects) {
		s.log.Debug(pkg+"subject capacity changed", "from", len(s.subjects), "to", len(f.Subjects))
		s.subjects = make([]skeleton.Subject, len(f.Subjects))
	}
	copy(s.subjects, f.Subjects)

	s.nearest = tracking.Select(s.subjects)

	present := tracking.Present(s.subjects)
	s.surface.SetMode(tracking.ModeOf(s.subjects))

	if s.present && !present {
		s.log.Info(pkg + "tracked subjects lost, resetting")
		s.nav.Reset()
	}
	s.present = present

	now := s.now()
	for _, e := range s.rec.Recognize(&skeleton.Frame{Timestamp: f.Timestamp, Subjects: s.subjects}) {
		s.gesture(e, now)
	}

	w, h := s.surface.Size()
	s.surface.Draw(render.StickMen(s.subjects, s.nearest, s.highlight, now, w, h))

	for i := range s.subjects {
		sub := &s.subjects[i]
		if sub.IsTracked() && sub.ID == s.nearest {
			left, right := render.Hands(sub, s.hands)
			s.surface.PlaceHands(left, right)
		}
	}
}

// gesture navigates for a swipe by the nearest subject. Swipes by anyone else
// are ignored.
func (s *Slideshow) gesture(e gesture.Event, now time.Time) {
	if e.SubjectID != s.nearest {
		s.log.Debug(pkg+"ignoring gesture from subject that is not nearest", "gesture", e.Kind.String(), "subject", e.SubjectID, "nearest", s.nearest)
		return
	}
	switch e.Kind {
	case gesture.SwipeRight:
		s.nav.Advance()
		s.surface.BeginTransition(render.SlideLeft)
	case gesture.SwipeLeft:
		s.nav.Retreat()
		s.surface.BeginTransition(render.SlideRight)
	default:
		s.log.Warning(pkg+"unknown gesture", "gesture", e.Kind.String())
		return
	}
	s.highlight = tracking.ArmFor(e.SubjectID, now, s.cfg.HighlightDuration)
	s.log.Debug(pkg+"gesture accepted", "gesture", e.Kind.String(), "subject", e.SubjectID, "index", s.nav.Index())
}

// HandleColor shows a colour frame from the rear sensor. A nil frame is
// ignored.
func (s *Slideshow) HandleColor(f *device.ColorFrame) {
	if f == nil {
		return
	}
	img, err := f.Image()
	if err != nil {
		s.log.Warning(pkg+"could not convert colour frame", "error", err.Error())
		return
	}
	s.surface.ShowColor(img)
}

// Connect finds the front and rear sensors in the registry, configures and
// starts them and subscribes to their frames. If either sensor is absent or
// fails to start, neither is kept, the slideshow is marked disconnected with
// the reason and the error is returned. Connecting again after a failure
// retries from scratch. Connect does nothing if already connected.
func (s *Slideshow) Connect() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.front != nil {
		return nil
	}

	front, rear, err := s.open()
	if err != nil {
		s.log.Warning(pkg+"sensors disconnected", "reason", err.Error())
		s.publish(Status{Disconnected: true, Reason: err.Error()})
		return err
	}

	s.front, s.rear = front, rear
	s.quit = make(chan struct{})
	s.readers.Add(2)
	go s.readSkeletons(front, s.quit)
	go s.readColor(rear, s.quit)
	s.log.Info(pkg+"sensors connected", "front", front.ID(), "rear", rear.ID())
	s.publish(Status{})
	return nil
}

// open finds, configures and starts both sensors. On failure no sensor is
// left running.
func (s *Slideshow) open() (device.SkeletonSource, device.ColorSource, error) {
	d, ok := s.reg.Find(s.cfg.FrontID)
	if !ok {
		return nil, nil, fmt.Errorf("front sensor %s not found", s.cfg.FrontID)
	}
	front, ok := d.(device.SkeletonSource)
	if !ok {
		return nil, nil, fmt.Errorf("front sensor %s does not provide skeleton frames", s.cfg.FrontID)
	}

	d, ok = s.reg.Find(s.cfg.RearID)
	if !ok {
		return nil, nil, fmt.Errorf("rear sensor %s not found", s.cfg.RearID)
	}
	rear, ok := d.(device.ColorSource)
	if !ok {
		return nil, nil, fmt.Errorf("rear sensor %s does not provide colour frames", s.cfg.RearID)
	}

	for _, d := range []device.Device{front, rear} {
		err := d.Set(s.cfg)
		if err != nil {
			s.log.Warning(pkg+"errors from configuring sensor", "sensor", d.ID(), "errors", err.Error())
		}
	}

	err := front.Start()
	if err != nil {
		return nil, nil, fmt.Errorf("could not start front sensor %s: %w", front.ID(), err)
	}
	err = rear.Start()
	if err != nil {
		s.stopSensor(front)
		return nil, nil, fmt.Errorf("could not start rear sensor %s: %w", rear.ID(), err)
	}
	return front, rear, nil
}

// Disconnect unsubscribes from and stops both sensors. The slideshow is marked
// disconnected with no reason.
func (s *Slideshow) Disconnect() {
	s.disconnect(nil, "")
}

// disconnect stops the sensors of the connection whose readers are stopped by
// closing quit, or of any connection if quit is nil.
func (s *Slideshow) disconnect(quit chan struct{}, reason string) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.front == nil || (quit != nil && quit != s.quit) {
		return
	}

	close(s.quit)
	s.stopSensor(s.front)
	s.stopSensor(s.rear)
	s.log.Debug(pkg + "waiting for readers to finish")
	s.readers.Wait()
	s.front, s.rear, s.quit = nil, nil, nil

	if reason != "" {
		s.log.Warning(pkg+"sensors disconnected", "reason", reason)
	} else {
		s.log.Info(pkg + "sensors disconnected")
	}
	s.publish(Status{Disconnected: true, Reason: reason})
}

func (s *Slideshow) stopSensor(d device.Device) {
	err := d.Stop()
	if err != nil {
		s.log.Error(pkg+"could not stop sensor", "sensor", d.ID(), "error", err.Error())
	}
}

// readSkeletons lexes frame lines from the front sensor onto the skeleton
// pool until quit is closed or the stream ends.
func (s *Slideshow) readSkeletons(front device.SkeletonSource, quit chan struct{}) {
	defer s.readers.Done()
	err := skeleton.Lex(&lineWriter{s: s, quit: quit}, front, 0)
	s.lost(quit, "front", err)
}

// lineWriter writes each frame line to the skeleton pool. When the pool is
// full the oldest line is dropped.
type lineWriter struct {
	s    *Slideshow
	quit chan struct{}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	select {
	case <-w.quit:
		return 0, errQuit
	default:
	}
	n, err := w.s.skeletons.Write(p)
	switch err {
	case nil:
	case pool.ErrDropped:
		w.s.log.Debug(pkg + "skeleton pool full, dropped oldest frame")
	case pool.ErrTooLong, pool.ErrTooLongForPool:
		w.s.log.Warning(pkg+"skeleton frame too long for pool, dropped", "size", len(p))
	default:
		return n, err
	}
	return len(p), nil
}

// readColor reads colour frames from the rear sensor onto the colour queue
// until quit is closed or the stream ends.
func (s *Slideshow) readColor(rear device.ColorSource, quit chan struct{}) {
	defer s.readers.Done()
	for {
		f, err := rear.ReadColor()
		select {
		case <-quit:
			return
		default:
		}
		if err != nil {
			s.lost(quit, "rear", err)
			return
		}
		if f == nil {
			time.Sleep(emptyColorDelay)
			continue
		}
		enqueue(s.colors, f)
	}
}

// lost handles the end of a sensor stream. Unless the readers are being
// stopped, the sensors are disconnected with the cause as the reason.
func (s *Slideshow) lost(quit chan struct{}, which string, err error) {
	select {
	case <-quit:
		return
	default:
	}
	if errors.Is(err, errQuit) {
		return
	}
	if err == nil {
		err = io.EOF
	}
	reason := fmt.Sprintf("%s sensor stream ended: %v", which, err)
	// Disconnecting waits for this reader, so it is done elsewhere.
	go s.disconnect(quit, reason)
}

// enqueue adds v to the bounded queue q, dropping the oldest queued value if q
// is full. Each queue has a single producer. Colour frames are queued on a
// channel rather than a pool since a single frame can exceed the pool's
// total allocation.
func enqueue[T any](q chan T, v T) {
	for {
		select {
		case q <- v:
			return
		default:
		}
		select {
		case <-q:
		default:
		}
	}
}

// Status returns the connection status.
func (s *Slideshow) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Disconnected reports whether the sensors are disconnected.
func (s *Slideshow) Disconnected() bool { return s.Status().Disconnected }

// Reason returns why the sensors are disconnected.
func (s *Slideshow) Reason() string { return s.Status().Reason }

// Subscribe adds f to the functions called, in subscription order, after each
// change of connection status.
func (s *Slideshow) Subscribe(f func(Status)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, f)
	s.mu.Unlock()
}

func (s *Slideshow) publish(st Status) {
	s.mu.Lock()
	changed := st != s.status
	s.status = st
	listeners := append([]func(Status){}, s.listeners...)
	s.mu.Unlock()

	s.surface.ShowDisconnected(st.Disconnected, st.Reason)
	if !changed {
		return
	}
	for _, f := range listeners {
		f(st)
	}
}

// Start starts the processing routine and connects the sensors. A connection
// failure is returned but processing keeps running, so that a later Connect,
// for example from Watch, can recover.
func (s *Slideshow) Start() error {
	if s.running {
		s.log.Warning(pkg + "start called, but slideshow already running")
		return nil
	}
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.process(s.done)
	s.running = true
	s.log.Info(pkg + "slideshow started")
	return s.Connect()
}

// Stop stops watching for sensors, disconnects the sensors and waits for the
// processing routine to finish. The watcher is stopped first so that no
// sensor is connected once Stop returns.
func (s *Slideshow) Stop() {
	if !s.running {
		s.log.Warning(pkg + "stop called but slideshow isn't running")
		return
	}
	if s.watcher != nil {
		err := s.watcher.Close()
		if err != nil {
			s.log.Error(pkg+"could not close device watcher", "error", err.Error())
		}
		s.watching.Wait()
		s.watcher = nil
	}
	s.Disconnect()
	close(s.done)
	s.log.Debug(pkg + "waiting for routines to finish")
	s.wg.Wait()
	s.running = false
	s.log.Info(pkg + "slideshow stopped")
}

// Running reports whether the slideshow has been started and not stopped.
func (s *Slideshow) Running() bool { return s.running }

// process handles queued frames until done is closed.
func (s *Slideshow) process(done chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-done:
			return
		case f := <-s.colors:
			s.HandleColor(f)
			continue
		default:
		}

		chunk, err := s.skeletons.Next(poolReadTimeout)
		switch err {
		case nil:
		case pool.ErrTimeout, io.EOF:
			continue
		default:
			s.log.Error(pkg+"unexpected skeleton pool error", "error", err.Error())
			continue
		}
		f, err := skeleton.Unmarshal(chunk.Bytes())
		chunk.Close()
		if err != nil {
			s.log.Warning(pkg+"dropping bad skeleton frame", "error", err.Error())
			continue
		}
		s.HandleSkeletons(f)
	}
}
