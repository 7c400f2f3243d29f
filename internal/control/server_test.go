package control

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smasonuk/wirecraft"
)

func newSession(t *testing.T) *wirecraft.Session {
	t.Helper()
	s, err := wirecraft.NewSession(wirecraft.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDispatch(t *testing.T) {
	testCases := []struct {
		name    string
		msg     string
		ok      bool
		errLike string
	}{
		{"state", `{"op": "state"}`, true, ""},
		{"set position", `{"op": "set_position", "position": [1, 2, 3]}`, true, ""},
		{"set orientation", `{"op": "set_orientation", "forward": [1, 0, 0], "up": [0, 1, 0]}`, true, ""},
		{"set fov", `{"op": "set_fov", "fov": 75}`, true, ""},
		{"set point color", `{"op": "set_point_color", "color": "#ff0000"}`, true, ""},
		{"set edge color", `{"op": "set_edge_color", "color": "white"}`, true, ""},
		{"malformed", `{"op": `, false, "malformed request"},
		{"unknown op", `{"op": "explode"}`, false, "unknown op"},
		{"missing position", `{"op": "set_position"}`, false, "missing field"},
		{"short position", `{"op": "set_position", "position": [1, 2]}`, false, "3 components"},
		{"missing fov", `{"op": "set_fov"}`, false, "missing field"},
		{"fov out of range", `{"op": "set_fov", "fov": 200}`, false, "out of range"},
		{"degenerate orientation", `{"op": "set_orientation", "forward": [0, 1, 0], "up": [0, 1, 0]}`, false, ""},
		{"bad color", `{"op": "set_edge_color", "color": "#12"}`, false, "color"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := NewServer(newSession(t))
			reply := srv.Dispatch([]byte(tc.msg))
			if reply.OK != tc.ok {
				t.Fatalf("reply = %+v, want ok %v", reply, tc.ok)
			}
			if tc.ok && reply.State == nil {
				t.Error("successful reply carries no state")
			}
			if !tc.ok && !strings.Contains(reply.Error, tc.errLike) {
				t.Errorf("error %q does not mention %q", reply.Error, tc.errLike)
			}
		})
	}
}

func TestDispatchChangesState(t *testing.T) {
	srv := NewServer(newSession(t))
	srv.Dispatch([]byte(`{"op": "set_position", "position": [10, 20, 30]}`))
	reply := srv.Dispatch([]byte(`{"op": "set_fov", "fov": 45}`))
	if !reply.OK {
		t.Fatal(reply.Error)
	}
	if reply.State.Position != [3]float64{10, 20, 30} || reply.State.FOV != 45 {
		t.Errorf("state = %+v", reply.State)
	}
}

func TestRegisterHandler(t *testing.T) {
	srv := NewServer(newSession(t))
	called := false
	srv.RegisterHandler("ping", func(Target, Request) error {
		called = true
		return nil
	})
	if reply := srv.Dispatch([]byte(`{"op": "ping"}`)); !reply.OK || !called {
		t.Errorf("custom handler not run: %+v", reply)
	}
}

func TestWebsocketRoundTrip(t *testing.T) {
	session := newSession(t)
	ts := httptest.NewServer(NewServer(session).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	requests := []Request{
		{Op: "set_point_color", Color: "#00ff00"},
		{Op: "set_position", Position: []float64{0, 100, 0}},
		{Op: "nope"},
	}
	var replies []Reply
	for _, req := range requests {
		if err := conn.WriteJSON(req); err != nil {
			t.Fatal(err)
		}
		var reply Reply
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatal(err)
		}
		replies = append(replies, reply)
	}

	if !replies[0].OK || replies[0].State.PointColor != "#00ff00" {
		t.Errorf("color reply = %+v", replies[0])
	}
	if !replies[1].OK || replies[1].State.Position != [3]float64{0, 100, 0} {
		t.Errorf("position reply = %+v", replies[1])
	}
	if replies[2].OK || replies[2].Error == "" {
		t.Errorf("unknown op reply = %+v", replies[2])
	}

	cam := session.Camera()
	if cam.GetPosition() != (wirecraft.Vector3{0, 100, 0}) {
		t.Errorf("session position = %v", cam.GetPosition())
	}
}
