package audio

import (
	"errors"
	"fmt"
	"strings"
)

var ErrDeviceNotFound = errors.New("input device not found")

// Device is one entry of the host's device list.
type Device struct {
	Index             int
	Name              string
	HostAPI           string
	InputChannels     int
	OutputChannels    int
	DefaultSampleRate float64
}

func (d Device) String() string {
	return fmt.Sprintf("%d %s (%s) in=%d out=%d %.0f Hz",
		d.Index, d.Name, d.HostAPI, d.InputChannels, d.OutputChannels, d.DefaultSampleRate)
}

// LocateDevice returns the position of the first device whose name contains
// query and which can record.
func LocateDevice(devices []Device, query string) (int, error) {
	for i, d := range devices {
		if strings.Contains(d.Name, query) && d.InputChannels > 0 {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: nothing matches %q", ErrDeviceNotFound, query)
}
