// Command replayviz is a minimal headless-friendly viewer for .slc3
// replay files: it steps an ActionAtom's decoded input stream forward
// one frame per tick and draws which buttons are held.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/younwookim/mg/internal/application/replay"
)

const (
	screenW = 320
	screenH = 180
)

// viewer implements ebiten.Game over a decoded replay.
type viewer struct {
	meta     replay.Metadata
	replayer *replay.Replayer
	current  replay.ReplayInput
	done     bool
}

func newViewer(path string) (*viewer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rp, err := replay.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	var actions []replay.Action
	for _, a := range rp.Registry.Atoms {
		if atom, ok := a.(*replay.ActionAtom); ok {
			actions = atom.Actions()
			break
		}
	}

	return &viewer{
		meta:     rp.Metadata,
		replayer: replay.NewReplayer(actions),
	}, nil
}

func (v *viewer) Update() error {
	if v.done {
		return nil
	}
	in, ok := v.replayer.GetInput()
	if !ok {
		v.done = true
		return nil
	}
	v.current = in
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	held := func(on bool, x, y float64, label string) {
		c := color.RGBA{60, 60, 70, 255}
		if on {
			c = color.RGBA{100, 220, 120, 255}
		}
		ebitenutil.DrawRect(screen, x, y, 40, 20, c)
		ebitenutil.DebugPrintAt(screen, label, int(x)+4, int(y)+2)
	}

	held(v.current.Left, 10, 120, "LEFT")
	held(v.current.Right, 60, 120, "RIGHT")
	held(v.current.Jump, 110, 120, "JUMP")

	status := fmt.Sprintf("frame %d/%d  seed=%d  tps=%.1f",
		v.replayer.CurrentFrame(), v.replayer.TotalFrames(), v.meta.Seed, v.meta.TPS)
	if v.done {
		status += "  [replay finished]"
	}
	ebitenutil.DebugPrint(screen, status)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	path := flag.String("file", "", "path to a .slc3 replay file")
	flag.Parse()

	if *path == "" {
		log.Fatal("usage: replayviz -file replay.slc3")
	}

	v, err := newViewer(*path)
	if err != nil {
		log.Fatalf("failed to load replay: %v", err)
	}

	ebiten.SetWindowSize(screenW*3, screenH*3)
	ebiten.SetWindowTitle("replayviz")
	ebiten.SetTPS(int(v.meta.TPS))

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
