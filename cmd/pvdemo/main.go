// Command pvdemo drives the acoustic engine and DSP context over a small
// scene, either streaming the result live or exporting it to a WAV file.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/planeverb/planeverb-go"
	"github.com/planeverb/planeverb-go/internal/audiosink"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 44100, "output sample rate")
		resName    = flag.String("resolution", "mid", "grid resolution: low|mid|high|extreme")
		gridSize   = flag.Float64("grid-size", 20, "square grid extent in meters")
		sourceX    = flag.Float64("source-x", 5, "sound source X position in meters")
		sourceY    = flag.Float64("source-y", 0, "sound source Y position in meters")
		listenerX  = flag.Float64("listener-x", -5, "listener X position in meters")
		listenerY  = flag.Float64("listener-y", 0, "listener Y position in meters")
		wall       = flag.Bool("wall", true, "place an absorbing wall between source and listener")
		duration   = flag.Float64("duration", 3, "render/playback duration in seconds")
		tone       = flag.Float64("tone", 440, "test tone frequency in Hz")
		out        = flag.String("out", "", "write rendered audio to this WAV path instead of playing it live")
	)
	flag.Parse()

	resolution, err := parseResolution(*resName)
	if err != nil {
		log.Fatal(err)
	}

	cfg := planeverb.DefaultConfig()
	cfg.GridSizeInMeters = planeverb.Vec2{X: *gridSize, Y: *gridSize}
	cfg.GridResolution = resolution

	eng, err := planeverb.NewEngine(cfg)
	if err != nil {
		log.Fatalf("NewEngine: %v", err)
	}
	defer eng.Close()

	if *wall {
		eng.AddGeometry(planeverb.AABB{
			Center:     planeverb.Vec2{X: 0, Y: 0},
			Width:      0.3,
			Height:     *gridSize * 0.6,
			Absorption: 0.5,
		})
	}

	emitterPos := planeverb.Vec3{X: *sourceX, Y: 0, Z: *sourceY}
	listenerPos := planeverb.Vec3{X: *listenerX, Y: 0, Z: *listenerY}
	emitterID := eng.AddEmitter(emitterPos)
	eng.SetListenerPosition(listenerPos)

	// Give the background worker a few iterations to settle before the
	// first acoustic query.
	time.Sleep(200 * time.Millisecond)

	dspCfg := planeverb.DefaultDSPConfig()
	dspCfg.SamplingRate = float64(*sampleRate)
	dsp, err := planeverb.NewDSPContext(dspCfg)
	if err != nil {
		log.Fatalf("NewDSPContext: %v", err)
	}
	dspID, ok := dsp.AddEmitter()
	if !ok {
		log.Fatal("failed to allocate a DSP emitter slot")
	}
	dsp.SetEmitterDirectivityPattern(dspID, planeverb.Omni)

	phase := 0.0
	render := func(numFrames int) (dry, busA, busB, busC []float32) {
		dsp.SetListenerTransform(listenerPos, planeverb.Vec3{X: 0, Y: 0, Z: 1})
		dsp.UpdateEmitterTransform(dspID, emitterPos, planeverb.Vec3{})

		stereo := make([]float32, numFrames*2)
		step := 2 * math.Pi * (*tone) / float64(*sampleRate)
		for i := 0; i < numFrames; i++ {
			s := float32(0.25 * math.Sin(phase))
			stereo[2*i] = s
			stereo[2*i+1] = s
			phase += step
		}

		res, ok := eng.GetOutput(emitterID)
		if !ok || !planeverb.IsOutputValid(res) {
			return nil, nil, nil, nil
		}
		dsp.SendSource(dspID, planeverb.SourceParams{
			ObstructionGain:   res.Occlusion,
			WetGain:           res.WetGain,
			RT60:              res.RT60,
			Lowpass:           res.Lowpass,
			Direction:         res.ListenerDirection,
			SourceDirectivity: res.SourceDirectivity,
		}, stereo, numFrames)
		if !dsp.ProcessOutput() {
			return nil, nil, nil, nil
		}
		return dsp.DryBuffer(), dsp.BufferA(), dsp.BufferB(), dsp.BufferC()
	}

	numFrames := int(*duration * float64(*sampleRate))
	if *out != "" {
		if err := exportWAV(*out, *sampleRate, numFrames, render); err != nil {
			log.Fatalf("export: %v", err)
		}
		fmt.Printf("wrote %s\n", *out)
		return
	}

	mixer := audiosink.NewBusMixer(render, audiosink.NewBusSendGains(1, 0.8, 0.6))
	player, err := audiosink.NewMixerPlayer(*sampleRate, mixer, numFrames)
	if err != nil {
		log.Fatalf("NewPlayer: %v", err)
	}
	player.Play()
	player.Wait(20 * time.Millisecond)
	player.Stop()
}

func parseResolution(name string) (planeverb.Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return planeverb.LowResolution, nil
	case "mid":
		return planeverb.MidResolution, nil
	case "high":
		return planeverb.HighResolution, nil
	case "extreme":
		return planeverb.ExtremeResolution, nil
	default:
		return 0, fmt.Errorf("invalid -resolution %q (expected low|mid|high|extreme)", name)
	}
}

type renderFunc = func(int) (dry, busA, busB, busC []float32)

func exportWAV(path string, sampleRate, totalFrames int, render renderFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	defer enc.Close()

	const blockFrames = 512
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	for frame := 0; frame < totalFrames; frame += blockFrames {
		n := blockFrames
		if frame+n > totalFrames {
			n = totalFrames - frame
		}
		dry, a, b, c := render(n)
		buf.Data = buf.Data[:0]
		for i := 0; i < n*2; i++ {
			var s float32
			if i < len(dry) {
				s += dry[i]
			}
			if i < len(a) {
				s += a[i]
			}
			if i < len(b) {
				s += b[i] * 0.8
			}
			if i < len(c) {
				s += c[i] * 0.6
			}
			buf.Data = append(buf.Data, floatToInt16(s))
		}
		if err := enc.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func floatToInt16(s float32) int {
	if s > 1 {
		s = 1
	}
	if s < -1 {
		s = -1
	}
	return int(s * 32767)
}
