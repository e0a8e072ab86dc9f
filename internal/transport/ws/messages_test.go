package ws

import (
	"testing"
)

func TestParseMessage_Input(t *testing.T) {
	data := []byte(`{"type":"input","forward":true,"left":true,"jump":true,"client_time":123.4}`)

	msg, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}

	in, ok := msg.(*InputMessage)
	if !ok {
		t.Fatalf("Expected *InputMessage, got %T", msg)
	}
	if !in.Forward || !in.Left || !in.Jump {
		t.Errorf("Pressed keys lost in parsing: %+v", in)
	}
	if in.Backward || in.Right {
		t.Errorf("Unpressed keys set: %+v", in)
	}
	if in.ClientTime != 123.4 {
		t.Errorf("Expected client_time 123.4, got %f", in.ClientTime)
	}
}

func TestParseMessage_Ping(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"type":"ping","client_time":55}`))
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}

	ping, ok := msg.(*PingMessage)
	if !ok {
		t.Fatalf("Expected *PingMessage, got %T", msg)
	}
	if ping.ClientTime != 55 {
		t.Errorf("Expected client_time 55, got %f", ping.ClientTime)
	}
}

func TestParseMessage_ControlTypes(t *testing.T) {
	for _, msgType := range []string{MessageTypeRestart, MessageTypeNextLevel, MessageTypePause, MessageTypeResume} {
		msg, err := ParseMessage([]byte(`{"type":"` + msgType + `"}`))
		if err != nil {
			t.Fatalf("ParseMessage(%s) failed: %v", msgType, err)
		}
		ctrl, ok := msg.(*ControlMessage)
		if !ok {
			t.Fatalf("Expected *ControlMessage for %s, got %T", msgType, msg)
		}
		if ctrl.Type != msgType {
			t.Errorf("Expected type %s, got %s", msgType, ctrl.Type)
		}
	}
}

func TestParseMessage_UnknownType(t *testing.T) {
	if _, err := ParseMessage([]byte(`{"type":"teleport"}`)); err == nil {
		t.Error("Expected error for unknown message type")
	}
}

func TestParseMessage_InvalidJSON(t *testing.T) {
	if _, err := ParseMessage([]byte(`{broken`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestGetMessageType(t *testing.T) {
	msgType, err := GetMessageType([]byte(`{"type":"input","forward":true}`))
	if err != nil {
		t.Fatalf("GetMessageType failed: %v", err)
	}
	if msgType != MessageTypeInput {
		t.Errorf("Expected input, got %s", msgType)
	}
}
