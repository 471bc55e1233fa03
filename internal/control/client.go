package control

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"
)

const dialTimeout = 2 * time.Second

// Send delivers m to the daemon at socketPath and returns its response.
// A response with status "error" is returned as an error.
func Send(socketPath string, m Message) (Response, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return Response{}, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	data, err := Marshal(m)
	if err != nil {
		return Response{}, fmt.Errorf("marshal message: %w", err)
	}

	if _, err := fmt.Fprintf(conn, "%s\n", strings.TrimSpace(string(data))); err != nil {
		return Response{}, fmt.Errorf("send message: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}

	if resp.Status != "ok" {
		return resp, fmt.Errorf("ipc error: %s", resp.Error)
	}
	return resp, nil
}
