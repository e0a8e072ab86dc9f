package ws

import (
	"encoding/json"
	"fmt"
)

// Типы входящих сообщений клиента
const (
	MessageTypeInput     = "input"
	MessageTypePing      = "ping"
	MessageTypeRestart   = "restart"
	MessageTypeNextLevel = "next_level"
	MessageTypePause     = "pause"
	MessageTypeResume    = "resume"
)

// Типы исходящих сообщений сервера
const (
	MessageTypeCreate = "create"
	MessageTypeUpdate = "update"
	MessageTypeRemove = "remove"
	MessageTypePong   = "pong"
	MessageTypeEvent  = "event"
	MessageTypeLevel  = "level"
)

// InputMessage — снимок состояния клавиш клиента
type InputMessage struct {
	Type       string  `json:"type"`
	Forward    bool    `json:"forward"`
	Backward   bool    `json:"backward"`
	Left       bool    `json:"left"`
	Right      bool    `json:"right"`
	Jump       bool    `json:"jump"`
	ClientTime float64 `json:"client_time"`
}

// PingMessage — запрос измерения задержки
type PingMessage struct {
	Type       string  `json:"type"`
	ClientTime float64 `json:"client_time"`
}

// ControlMessage — команда управления сессией без полезной нагрузки
type ControlMessage struct {
	Type string `json:"type"`
}

// ParseMessage разбирает входящее сообщение в соответствующий тип
func ParseMessage(data []byte) (interface{}, error) {
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("ws: не удалось разобрать сообщение: %w", err)
	}

	switch base.Type {
	case MessageTypeInput:
		var msg InputMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("ws: некорректное сообщение ввода: %w", err)
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("ws: некорректное ping-сообщение: %w", err)
		}
		return &msg, nil

	case MessageTypeRestart, MessageTypeNextLevel, MessageTypePause, MessageTypeResume:
		return &ControlMessage{Type: base.Type}, nil

	default:
		return nil, fmt.Errorf("ws: неизвестный тип сообщения: %q", base.Type)
	}
}

// GetMessageType возвращает тип сообщения без полного разбора
func GetMessageType(data []byte) (string, error) {
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		return "", err
	}
	return base.Type, nil
}
