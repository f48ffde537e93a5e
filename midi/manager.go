package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// Sink receives every raw message from every open input, tagged with the
// port name, in arrival order.
type Sink func(raw []byte, source string)

// SourceEvent is emitted when input ports appear/disappear
type SourceEvent struct {
	Type SourceEventType
	Name string
}

type SourceEventType int

const (
	SourceConnected SourceEventType = iota
	SourceDisconnected
)

// Ports matching any of these patterns are never opened (virtual/system ports).
var excludedNamePatterns = []string{"Midi Through", "Through Port", "Dummy"}

// DeviceManager handles hot-plug detection of MIDI input ports and feeds
// everything they produce into a single sink.
type DeviceManager struct {
	inputs   map[string]func() // port name -> stop listening
	mu       sync.RWMutex
	events   chan SourceEvent
	pollRate time.Duration
	sink     Sink

	// lazily opened outputs for encoded sync messages
	senders   map[string]func(gomidi.Message) error
	sendersMu sync.RWMutex
}

// NewDeviceManager creates a new device manager feeding the given sink
func NewDeviceManager(sink Sink) *DeviceManager {
	return &DeviceManager{
		inputs:   make(map[string]func()),
		events:   make(chan SourceEvent, 16),
		pollRate: time.Second,
		sink:     sink,
		senders:  make(map[string]func(gomidi.Message) error),
	}
}

// Events returns a channel of source connect/disconnect events
func (dm *DeviceManager) Events() <-chan SourceEvent {
	return dm.events
}

// Sources returns a snapshot of open input port names
func (dm *DeviceManager) Sources() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	names := make([]string, 0, len(dm.inputs))
	for name := range dm.inputs {
		names = append(names, name)
	}
	return names
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		// MIDI server is hung - skip this scan
		return
	}

	seen := make(map[string]bool)

	for i, inPort := range inPorts {
		name := inPort.String()
		if isExcluded(name) {
			continue
		}
		seen[name] = true

		dm.mu.RLock()
		_, exists := dm.inputs[name]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		stop, err := dm.listen(inPorts[i], name)
		if err != nil {
			continue
		}

		dm.mu.Lock()
		dm.inputs[name] = stop
		dm.mu.Unlock()

		dm.events <- SourceEvent{Type: SourceConnected, Name: name}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for name := range dm.inputs {
		if !seen[name] {
			toRemove = append(toRemove, name)
		}
	}
	for _, name := range toRemove {
		dm.inputs[name]()
		delete(dm.inputs, name)
		dm.events <- SourceEvent{Type: SourceDisconnected, Name: name}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) listen(in drivers.In, name string) (func(), error) {
	return gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		// One callback per port; the sink runs synchronously on the driver
		// goroutine so per-source arrival order is preserved.
		dm.sink(msg, name)
	})
}

// Send transmits raw bytes to the named output port, opening it lazily.
// Used for encoded tempo/hardware sync messages.
func (dm *DeviceManager) Send(portName string, raw []byte) error {
	sender := dm.getSender(portName)
	if sender == nil {
		return nil // port gone; sync messages are best-effort
	}
	return sender(gomidi.Message(raw))
}

// getSender returns a sender for the given port name, lazily opening it
func (dm *DeviceManager) getSender(portName string) func(gomidi.Message) error {
	if portName == "" {
		return nil
	}

	dm.sendersMu.RLock()
	if sender, ok := dm.senders[portName]; ok {
		dm.sendersMu.RUnlock()
		return sender
	}
	dm.sendersMu.RUnlock()

	dm.sendersMu.Lock()
	defer dm.sendersMu.Unlock()

	// Double-check after acquiring write lock
	if sender, ok := dm.senders[portName]; ok {
		return sender
	}

	for _, port := range gomidi.GetOutPorts() {
		if port.String() == portName {
			sender, err := gomidi.SendTo(port)
			if err != nil {
				return nil
			}
			dm.senders[portName] = sender
			return sender
		}
	}
	return nil
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, stop := range dm.inputs {
		stop()
	}
	dm.inputs = make(map[string]func())
}

func isExcluded(name string) bool {
	for _, pat := range excludedNamePatterns {
		if strings.Contains(name, pat) {
			return true
		}
	}
	return false
}
