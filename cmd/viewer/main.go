// Command viewer shows a glTF model under an environment panorama with an
// orbit camera and a material panel.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"model-viewer/internal/config"
	"model-viewer/internal/console"
	"model-viewer/internal/debug"
	"model-viewer/internal/download"
	"model-viewer/internal/envmap"
	"model-viewer/internal/fonts"
	"model-viewer/internal/graphics"
	"model-viewer/internal/logger"
	"model-viewer/internal/material"
	"model-viewer/internal/model"
	"model-viewer/internal/panel"
	"model-viewer/internal/remote"
	"model-viewer/internal/scene"
	"model-viewer/internal/ui"
	"model-viewer/internal/viewer"
)

func main() {
	var (
		cfgPath     = flag.String("config", config.Path, "config file")
		modelRef    = flag.String("model", "", "model path or URL")
		envRef      = flag.String("env", "", "environment panorama path or URL")
		remoteAddr  = flag.String("remote", "", "serve the websocket control surface on addr")
		showFPS     = flag.Bool("fps", false, "show the FPS counter")
		writeConfig = flag.Bool("write-config", false, "write the effective config to -config and exit")
	)
	flag.Parse()

	var o config.Overrides
	o.Assets.Model = *modelRef
	o.Assets.Environment = *envRef
	o.Remote.Addr = *remoteAddr
	o.Debug.ShowFPS = *showFPS

	if err := run(*cfgPath, o, *writeConfig); err != nil {
		fmt.Fprintln(os.Stderr, "viewer:", err)
		os.Exit(1)
	}
}

func run(cfgPath string, o config.Overrides, writeConfig bool) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Apply(o); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if writeConfig {
		return config.Save(cfgPath, cfg)
	}

	logs, err := logger.New(cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		return err
	}
	defer logs.Close()
	log := logs.Logger

	bg, err := material.ParseHex(cfg.Render.Background)
	if err != nil {
		return fmt.Errorf("render.background: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := viewer.New(cfg, log, download.New(cfg.Assets.CacheDir, cfg.Assets.Timeout), graphics.Window{})
	scn := scene.New(cfg.Render, log)
	v.OnModel = func(obj *model.Object) { scn.SetModel(obj.Path) }
	v.OnEnv = func(p *envmap.Panorama) { scn.SetEnvironment(p) }

	pnl := panel.New(cfg.Panel.Title, material.Palette)
	pnl.OnColor = func(s material.Swatch) { v.SelectColor(s) }
	pnl.OnMetalness = func(x float32) { v.SetMetalness(x) }
	pnl.OnRoughness = func(x float32) { v.SetRoughness(x) }
	pnl.Layout(cfg.Window.Width, cfg.Window.Height)

	overlay := ui.New()
	if cfg.Panel.Stylesheet != "" {
		if err := overlay.LoadCSS(cfg.Panel.Stylesheet); err != nil {
			log.Warn("stylesheet not loaded", zap.String("path", cfg.Panel.Stylesheet), zap.Error(err))
		}
	}

	dbg := debug.New()
	dbg.ShowFPS = cfg.Debug.ShowFPS
	dbg.ShowMemAlloc = cfg.Debug.ShowMemAlloc
	dbg.ShowLog = cfg.Debug.ShowLog
	dbg.Lines = logs.Lines

	con := console.New(log, v.Exec, logs.Lines)

	var pub *publisher
	if cfg.Remote.Addr != "" {
		hub := remote.NewHub(log)
		pub = &publisher{log: log, hub: hub}
		go func() {
			if err := hub.Serve(ctx, cfg.Remote.Addr); err != nil {
				log.Error("remote control stopped", zap.Error(err))
			}
		}()
	}

	v.Start(ctx)
	defer v.Stop()

	var (
		in       input
		fontOnce sync.Once
	)
	update := func() {
		fontOnce.Do(func() {
			if cfg.Panel.Font == "" {
				return
			}
			path, err := fonts.Find(cfg.Panel.Font)
			if err == nil {
				err = overlay.LoadFont(path)
			}
			if err != nil {
				log.Warn("font not loaded", zap.String("path", cfg.Panel.Font), zap.Error(err))
				return
			}
			dbg.SetFont(overlay.Font())
			con.SetFont(overlay.Font())
		})
		if w, h, ok := graphics.Resized(); ok {
			if v.Resize(w, h) {
				pnl.Layout(w, h)
			}
		}
		v.Poll()
		con.Update()
		in.update(v, pnl)
		v.Tick()
		if params, ok := v.Material.Current(); ok {
			pnl.Sync(params, v.Material.Swatch())
		}
		if pub != nil {
			pub.serve(v)
		}
	}
	draw := func() {
		view := scene.View{Camera: v.Camera, Exposure: v.Exposure()}
		if obj := v.Model(); obj != nil {
			view.Position = obj.Position
		}
		if params, ok := v.Material.Current(); ok {
			view.Material = params
		}
		scn.Draw(view)
		overlay.Draw(pnl)
		con.Draw()
		dbg.Draw()
	}

	log.Info("viewer started",
		zap.String("model", cfg.Assets.Model),
		zap.String("environment", cfg.Assets.Environment))
	graphics.Run(graphics.Options{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		MSAA:       cfg.Window.MSAA,
		TargetFPS:  cfg.Window.TargetFPS,
		Background: bg,
		Cleanup:    scn.Unload,
	}, update, draw)
	return nil
}

// publisher runs queued remote commands on the render goroutine and
// broadcasts the session state whenever it changes.
type publisher struct {
	log  *zap.Logger
	hub  *remote.Hub
	last []byte
}

func (p *publisher) serve(v *viewer.Viewer) {
	for {
		select {
		case cmd := <-p.hub.Commands():
			reply, err := v.Exec(cmd.Line)
			cmd.Respond(reply, err)
		default:
			state, err := v.State().JSON()
			if err != nil {
				p.log.Warn("state not published", zap.Error(err))
				return
			}
			if !bytes.Equal(state, p.last) {
				p.hub.Broadcast(state)
				p.last = state
			}
			return
		}
	}
}
