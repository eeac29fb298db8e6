package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/vk/calcform/internal/calculator"
	"github.com/zishang520/socket.io/v2/socket"
)

// Socket.io event names.
const (
	EventUpdateVariable = "update_variable"
	EventSetCheckbox    = "set_checkbox"
	EventRender         = "render"
	EventError          = "error"
)

// liveSession binds one socket.io connection to its own calculator.
type liveSession struct {
	calc   *calculator.Calculator
	logger *slog.Logger
}

// newSocketServer creates the socket.io server. Every connection gets a
// fresh calculator and receives a render right away and after each change.
func (a *App) newSocketServer() *socket.Server {
	sio := socket.NewServer(nil, nil)

	sio.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		s := &liveSession{
			calc:   a.NewCalculator(),
			logger: a.logger.With("session_id", uuid.NewString(), "sid", string(client.Id())),
		}
		s.logger.Info("Live session connected.")

		reply := func(view calculator.View, err error) {
			if err != nil {
				s.logger.Debug("Rejected live update.", "error", err)
				client.Emit(EventError, map[string]any{"message": err.Error()})
				return
			}
			client.Emit(EventRender, view)
		}

		client.On(EventUpdateVariable, func(args ...any) {
			reply(s.updateVariable(args...))
		})
		client.On(EventSetCheckbox, func(args ...any) {
			reply(s.setCheckbox(args...))
		})
		client.On("disconnect", func(reason ...any) {
			s.logger.Info("Live session disconnected.", "reason", fmt.Sprint(reason...))
		})

		client.Emit(EventRender, s.calc.Render())
	})

	return sio
}

// updateVariable handles {"name": "price", "value": 12}.
func (s *liveSession) updateVariable(args ...any) (calculator.View, error) {
	payload, err := firstObject(args)
	if err != nil {
		return calculator.View{}, err
	}
	name, ok := payload["name"].(string)
	if !ok || name == "" {
		return calculator.View{}, errors.New("update_variable needs a string 'name'")
	}
	value, err := toFloat(payload["value"])
	if err != nil {
		return calculator.View{}, fmt.Errorf("update_variable '%s': %w", name, err)
	}

	s.calc.UpdateVariable(name, value)
	s.logger.Debug("Variable updated.", "name", name, "value", value)
	return s.calc.Render(), nil
}

// setCheckbox handles {"component": "extras", "option": "wrap", "checked": true}.
func (s *liveSession) setCheckbox(args ...any) (calculator.View, error) {
	payload, err := firstObject(args)
	if err != nil {
		return calculator.View{}, err
	}
	component, _ := payload["component"].(string)
	option, _ := payload["option"].(string)
	checked, _ := payload["checked"].(bool)

	if err := s.calc.SetCheckbox(component, option, checked); err != nil {
		return calculator.View{}, err
	}
	s.logger.Debug("Checkbox updated.", "component", component, "option", option, "checked", checked)
	return s.calc.Render(), nil
}

func firstObject(args []any) (map[string]any, error) {
	if len(args) == 0 {
		return nil, errors.New("missing event payload")
	}
	payload, ok := args[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("event payload must be an object, got %T", args[0])
	}
	return payload, nil
}

// toFloat accepts JSON numbers and numeric strings.
func toFloat(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not a number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value must be a number, got %T", v)
	}
}
