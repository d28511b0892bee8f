package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mlsorensen/goclock"
	"github.com/mlsorensen/goclock/pkg/clock"
	"github.com/mlsorensen/goclock/pkg/clock/comms"
	// This tells the Go compiler to include the package, which runs its init()
	// function. The init() function, in turn, calls goclock.Register(). You can
	// specify transports individually or just "all"
	_ "github.com/mlsorensen/goclock/pkg/transports/all"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	transport := "rfcomm"
	if len(os.Args) > 1 {
		transport = os.Args[1]
	}

	a := app.New()
	w := a.NewWindow("Clock")

	statusLabel := widget.NewLabel("")
	notify := func(text string) {
		log.Info().Msg(text)
		fyne.Do(func() { statusLabel.SetText(text) })
	}

	dialer, err := goclock.NewDialer(transport, goclock.DialOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create transport")
	}
	peer := goclock.DefaultPeer()
	if transport == "rfcomm" {
		peer = goclock.ResolveName(peer)
	}
	session := goclock.NewSession(goclock.SessionConfig{Peer: peer, Dialer: dialer, Notify: notify})
	myClock := clock.New(session, notify, comms.DefaultReadBuffer)

	// Buttons run off the UI goroutine, one command at a time.
	var mu sync.Mutex
	press := func(name string, fn func() error) func() {
		return func() {
			go func() {
				mu.Lock()
				defer mu.Unlock()
				if err := fn(); err != nil && !comms.IsValidation(err) {
					log.Error().Err(err).Str("button", name).Msg("command failed")
					notify(err.Error())
				}
			}()
		}
	}

	colorButton := widget.NewButton("Color", press("color", func() error {
		current, err := myClock.QueryColor()
		if err != nil {
			return err
		}
		fyne.Do(func() {
			picker := dialog.NewColorPicker("Color", "Pick the display color", func(c color.Color) {
				nc := color.NRGBAModel.Convert(c).(color.NRGBA)
				press("set color", func() error {
					return myClock.SetColor(comms.ColorState{Red: nc.R, Green: nc.G, Blue: nc.B})
				})()
			}, w)
			picker.Advanced = true
			picker.SetColor(color.NRGBA{R: current.Red, G: current.Green, B: current.Blue, A: 0xff})
			picker.Show()
		})
		return nil
	}))

	// scheduleButton pre-fills a picker with the current half of the schedule and
	// sends the edited half back with the other half unchanged.
	scheduleButton := func(label string, wake bool) *widget.Button {
		return widget.NewButton(label, press(label, func() error {
			prev, err := myClock.QuerySchedule()
			if err != nil {
				return err
			}
			h, m := prev.Sleep()
			if wake {
				h, m = prev.Wake()
			}
			fyne.Do(func() {
				hourEntry := widget.NewEntry()
				hourEntry.SetText(strconv.Itoa(h))
				minuteEntry := widget.NewEntry()
				minuteEntry.SetText(fmt.Sprintf("%02d", m))
				items := []*widget.FormItem{
					widget.NewFormItem("Hour", hourEntry),
					widget.NewFormItem("Minute", minuteEntry),
				}
				dialog.ShowForm(label, "Set", "Cancel", items, func(ok bool) {
					if !ok {
						return
					}
					hour, herr := strconv.Atoi(hourEntry.Text)
					minute, merr := strconv.Atoi(minuteEntry.Text)
					if herr != nil || merr != nil {
						notify("Enter the time as numbers")
						return
					}
					press("set "+label, func() error {
						if wake {
							return myClock.SetWake(prev, hour, minute)
						}
						return myClock.SetSleep(prev, hour, minute)
					})()
				}, w)
			})
			return nil
		}))
	}

	connectButton := widget.NewButton("Connect", press("connect", func() error {
		return myClock.Connect().Err
	}))
	disconnectButton := widget.NewButton("Disconnect", press("disconnect", func() error {
		if err := myClock.Disconnect(); !errors.Is(err, goclock.ErrNotConnected) {
			return err
		}
		return nil
	}))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		fyne.Do(a.Quit)
	}()

	press("connect", func() error { return myClock.Connect().Err })()

	w.SetContent(container.NewVBox(
		widget.NewLabel(peer.DisplayName()),
		statusLabel,
		container.NewGridWithColumns(2,
			connectButton,
			disconnectButton,
			widget.NewButton("Set Time", press("time", myClock.SetTimeNow)),
			widget.NewButton("Set Date", press("date", myClock.SetDateNow)),
			widget.NewButton("Temperature", press("temperature", myClock.QueryTemperature)),
			widget.NewButton("Humidity", press("humidity", myClock.QueryHumidity)),
			colorButton,
			scheduleButton("Wake Up", true),
			scheduleButton("Sleep", false),
		),
	))
	w.ShowAndRun()

	mu.Lock()
	defer mu.Unlock()
	if myClock.IsConnected() {
		if err := myClock.Disconnect(); err != nil {
			log.Error().Err(err).Msg("Error disconnecting from clock")
		}
	}
}
