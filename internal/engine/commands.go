package engine

import (
	"go.uber.org/zap"

	"github.com/wtengine/wte/internal/config"
	"github.com/wtengine/wte/internal/core/message"
)

// handleSys interprets one "system" message. Failures are logged; a bad
// command never stops the loop.
func (e *Engine) handleSys(msg message.Message) {
	switch msg.Command() {
	case "exit":
		e.Shutdown()

	case "alert":
		e.State.LastAlert = msg.RawArgs()
		e.log.Warn("alert", zap.Strings("args", msg.Args()))

	case "new_game":
		if err := e.NewGame(); err != nil {
			e.log.Error("new_game failed", zap.Error(err))
		}

	case "end_game":
		e.EndGame()

	case "open_menu":
		e.State.OpenMenu(msg.Arg(0))

	case "close_menu":
		e.State.CloseMenu(msg.Arg(0))

	case "enable_system":
		if err := e.Systems.Enable(msg.Arg(0)); err != nil {
			e.log.Warn("enable_system", zap.String("system", msg.Arg(0)), zap.Error(err))
		}

	case "disable_system":
		if err := e.Systems.Disable(msg.Arg(0)); err != nil {
			e.log.Warn("disable_system", zap.String("system", msg.Arg(0)), zap.Error(err))
		}

	case "set_engine_config":
		k, v, err := config.ParseAssignment(msg.Arg(0))
		if err == nil {
			err = e.Config.SetEngine(k, v)
		}
		if err != nil {
			e.log.Warn("set_engine_config", zap.Error(err))
			return
		}
		if k == "draw_fps" {
			e.State.DrawFPS = e.Config.Engine.DrawFPS
		}

	case "set_game_config":
		k, v, err := config.ParseAssignment(msg.Arg(0))
		if err != nil {
			e.log.Warn("set_game_config", zap.Error(err))
			return
		}
		e.SetGameVar(k, v)

	case "fps_counter":
		switch msg.Arg(0) {
		case "on":
			e.State.DrawFPS = true
		case "off":
			e.State.DrawFPS = false
		default:
			e.log.Warn("fps_counter wants on or off", zap.String("arg", msg.Arg(0)))
		}

	default:
		e.game.HandleSysMessage(e, msg)
	}
}

// SetGameVar sets a game variable and persists it when a store is attached.
func (e *Engine) SetGameVar(key, value string) {
	e.Config.SetGame(key, value)
	if e.store == nil {
		return
	}
	ctx, cancel := persistCtx()
	defer cancel()
	if err := e.store.SaveVar(ctx, key, value); err != nil {
		e.log.Warn("game var not saved", zap.String("key", key), zap.Error(err))
	}
}
