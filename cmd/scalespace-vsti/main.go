//go:build plugin

package main

import (
	"os"

	"github.com/eventual-recluse/scalespace"
	"github.com/eventual-recluse/scalespace/cmd"
	"github.com/eventual-recluse/scalespace/explorer"
	"github.com/eventual-recluse/scalespace/rpc"
	"pipelined.dev/audio/vst2"
)

var pluginID = [4]byte{'S', 'c', 'S', 'p'}

const (
	pluginName  = "ScaleSpace"
	numChannels = 2
)

// normalized maps a parameter value to the 0..1 range used by the host.
func normalized(info explorer.ParameterInfo, value float64) float32 {
	return float32((value - info.Min) / (info.Max - info.Min))
}

func denormalized(info explorer.ParameterInfo, value float32) float64 {
	return info.Min + float64(value)*(info.Max-info.Min)
}

func init() {
	var (
		version = int32(100)
	)
	vst2.PluginAllocator = func(h vst2.Host) (vst2.Plugin, vst2.Dispatcher) {
		var sinks scalespace.MultiSink
		var closers []func()
		model, processor := explorer.NewModelProcessor(explorer.NewBroker(), nil)
		if sender, err := rpc.Sender("127.0.0.1"); err == nil {
			sinks = append(sinks, sender)
			closers = append(closers, sender.Close)
		} else {
			model.Log.Printf("no table receiver: %v", err)
		}
		if port := os.Getenv("SCALESPACE_MIDI_PORT"); port != "" {
			if sink, closer, err := cmd.NewMIDISink(port, 0x7F, 0); err == nil {
				sinks = append(sinks, sink)
				closers = append(closers, closer)
			} else {
				model.Log.Printf("no MIDI output: %v", err)
			}
		}
		processor.SetSink(sinks)
		params := make([]*vst2.Parameter, explorer.ParameterCount)
		for i, info := range explorer.Parameters {
			params[i] = &vst2.Parameter{
				Name:         info.Name,
				Value:        normalized(info, info.Default),
				NotAutomated: !info.Automatable,
			}
		}
		return vst2.Plugin{
				UniqueID:       pluginID,
				Version:        version,
				InputChannels:  numChannels,
				OutputChannels: numChannels,
				Name:           pluginName,
				Vendor:         "eventual-recluse/scalespace",
				Category:       vst2.PluginCategoryEffect,
				Parameters:     params,
				ProcessFloatFunc: func(in, out vst2.FloatBuffer) {
					for i := 0; i < numChannels; i++ {
						copy(out.Channel(i), in.Channel(i))
					}
					for i, p := range params {
						model.SetParameterValue(i, denormalized(explorer.Parameters[i], p.Value))
					}
					processor.Process(out.Frames)
				},
			}, vst2.Dispatcher{
				CanDoFunc: func(pcds vst2.PluginCanDoString) vst2.CanDoResponse {
					return vst2.NoCanDo
				},
				CloseFunc: func() {
					for _, c := range closers {
						c()
					}
				},
				GetChunkFunc: func(isPreset bool) []byte {
					data, err := model.MarshalState()
					if err != nil {
						model.Log.Printf("%v", err)
						return nil
					}
					return data
				},
				SetChunkFunc: func(data []byte, isPreset bool) {
					if err := model.UnmarshalState(data); err != nil {
						model.Log.Printf("%v", err)
						return
					}
					for i, p := range params {
						p.Value = normalized(explorer.Parameters[i], model.ParameterValue(i))
					}
				},
			}
	}
}

func main() {}
