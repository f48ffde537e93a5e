package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"midirig/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		monitor()
	case "send":
		send()
	case "clock":
		clock()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                     - List all MIDI ports")
	fmt.Println("  monitor                  - Dump classified input from every port")
	fmt.Println("  send <port#> <note>      - Send a test note to an output port")
	fmt.Println("  clock <port#> <bpm>      - Broadcast timing clock for 5 seconds")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! MIDI server is hung.")
	}
}

func monitor() {
	ins := gomidi.GetInPorts()
	if len(ins) == 0 {
		fmt.Println("No input ports")
		return
	}

	var stops []func()
	for i := range ins {
		name := ins[i].String()
		stop, err := gomidi.ListenTo(ins[i], func(raw gomidi.Message, timestampms int32) {
			if msg, ok := midi.Classify(raw, name); ok {
				fmt.Println(msg)
			}
		})
		if err != nil {
			fmt.Printf("open %s: %v\n", name, err)
			continue
		}
		fmt.Printf("listening: %s\n", name)
		stops = append(stops, stop)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	for _, stop := range stops {
		stop()
	}
}

func send() {
	if len(os.Args) < 4 {
		usage()
		return
	}
	portIdx, _ := strconv.Atoi(os.Args[2])
	note, _ := strconv.Atoi(os.Args[3])

	outs := gomidi.GetOutPorts()
	if portIdx < 0 || portIdx >= len(outs) {
		fmt.Println("No such output port")
		return
	}

	sender, err := gomidi.SendTo(outs[portIdx])
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	fmt.Printf("Sending %s to %s\n", midi.NoteName(uint8(note)), outs[portIdx].String())
	sender(midi.Encode(midi.KindNoteOn, 0, uint8(note), 100))
	time.Sleep(500 * time.Millisecond)
	sender(midi.Encode(midi.KindNoteOff, 0, uint8(note), 0))
}

func clock() {
	if len(os.Args) < 4 {
		usage()
		return
	}
	portIdx, _ := strconv.Atoi(os.Args[2])
	bpm, _ := strconv.ParseFloat(os.Args[3], 64)

	outs := gomidi.GetOutPorts()
	if portIdx < 0 || portIdx >= len(outs) {
		fmt.Println("No such output port")
		return
	}

	sender, err := gomidi.SendTo(outs[portIdx])
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	interval := midi.ClockInterval(bpm)
	if interval <= 0 {
		fmt.Println("Bad tempo")
		return
	}

	fmt.Printf("Clock at %.1f bpm (%v per tick) for 5 seconds\n", bpm, interval)
	sender(midi.Start())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-ticker.C:
			sender(midi.Clock())
		case <-deadline:
			sender(midi.Stop())
			return
		}
	}
}
