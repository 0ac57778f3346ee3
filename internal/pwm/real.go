//go:build linux

package pwm

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/mwoudenberg/aqualed/internal/logic"
)

const (
	// pwmFrame is the soft-PWM period: 100 Hz is flicker-free for LED
	// drivers and keeps the toggle rate well within what the character
	// device can sustain.
	pwmFrame  = 10 * time.Millisecond
	pwmSlices = logic.MaxLevel
)

// RealOutput drives two GPIO lines with software PWM.
type RealOutput struct {
	chip  *gpiocdev.Chip
	lineA *gpiocdev.Line
	lineB *gpiocdev.Line

	mu sync.Mutex
	a  uint8
	b  uint8

	done chan struct{}
	wg   sync.WaitGroup
}

// NewRealOutput claims the two lamp pins as outputs (initially off) and
// starts the PWM loop.
func NewRealOutput(pinA, pinB int) (*RealOutput, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lineA, err := chip.RequestLine(pinA, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request lamp A pin %d: %w", pinA, err)
	}
	lineB, err := chip.RequestLine(pinB, gpiocdev.AsOutput(0))
	if err != nil {
		lineA.Close()
		chip.Close()
		return nil, fmt.Errorf("request lamp B pin %d: %w", pinB, err)
	}

	o := &RealOutput{
		chip:  chip,
		lineA: lineA,
		lineB: lineB,
		done:  make(chan struct{}),
	}
	o.wg.Add(1)
	go o.run()
	return o, nil
}

// Set changes the duty cycles picked up at the next PWM frame.
func (o *RealOutput) Set(a, b uint8) error {
	o.mu.Lock()
	o.a = Clamp(a)
	o.b = Clamp(b)
	o.mu.Unlock()
	return nil
}

// run is the PWM loop: each frame raises a line, then lowers it after
// its duty slice. At most four line writes per frame.
func (o *RealOutput) run() {
	defer o.wg.Done()
	slice := pwmFrame / pwmSlices

	for {
		select {
		case <-o.done:
			return
		default:
		}

		o.mu.Lock()
		a, b := int(o.a), int(o.b)
		o.mu.Unlock()

		if a > 0 {
			o.lineA.SetValue(1)
		}
		if b > 0 {
			o.lineB.SetValue(1)
		}
		for s := 0; s < pwmSlices; s++ {
			if s == a {
				o.lineA.SetValue(0)
			}
			if s == b {
				o.lineB.SetValue(0)
			}
			time.Sleep(slice)
		}
	}
}

// Close stops the PWM loop, drives both lamps off and releases the lines.
func (o *RealOutput) Close() error {
	close(o.done)
	o.wg.Wait()

	var errs []error
	if o.lineA != nil {
		o.lineA.SetValue(0)
		if err := o.lineA.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close lamp A line: %w", err))
		}
	}
	if o.lineB != nil {
		o.lineB.SetValue(0)
		if err := o.lineB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close lamp B line: %w", err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
