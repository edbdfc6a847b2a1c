package proc

import (
	"strconv"
	"strings"

	"github.com/pranshuparmar/witr/pkg/model"
)

// StateUnknown is reported for any state code outside the TCP state table.
const StateUnknown = "UNKNOWN"

// tcpStates maps the kernel's hex state codes to symbolic labels.
var tcpStates = map[int]string{
	0x01: "ESTABLISHED",
	0x02: "SYN_SENT",
	0x03: "SYN_RECV",
	0x04: "FIN_WAIT1",
	0x05: "FIN_WAIT2",
	0x06: "TIME_WAIT",
	0x07: "CLOSE",
	0x08: "CLOSE_WAIT",
	0x09: "LAST_ACK",
	0x0A: "LISTEN",
	0x0B: "CLOSING",
}

// StateFromCode decodes a 2-digit hex state code.
func StateFromCode(code string) string {
	v, err := strconv.ParseUint(code, 16, 8)
	if err != nil {
		return StateUnknown
	}
	if s, ok := tcpStates[int(v)]; ok {
		return s
	}
	return StateUnknown
}

// NormalizeState maps BSD-style state names (lsof, netstat) onto the labels
// used for the Linux table so both platforms explain states the same way.
func NormalizeState(state string) string {
	state = strings.ToUpper(strings.TrimSpace(state))
	switch state {
	case "":
		return StateUnknown
	case "FIN_WAIT_1":
		return "FIN_WAIT1"
	case "FIN_WAIT_2":
		return "FIN_WAIT2"
	case "SYN_RECEIVED":
		return "SYN_RECV"
	case "CLOSED":
		return "CLOSE"
	}
	return state
}

// Explain fills Explanation and Workaround from State alone.
func Explain(info *model.SocketInfo) {
	info.Workaround = ""
	switch info.State {
	case "LISTEN":
		info.Explanation = "Actively listening for connections"
	case "ESTABLISHED":
		info.Explanation = "Active connection"
	case "SYN_SENT":
		info.Explanation = "Connection request sent, waiting for response"
	case "SYN_RECV":
		info.Explanation = "Connection request received, sending acknowledgment"
	case "FIN_WAIT1":
		info.Explanation = "Local side initiated close, waiting for acknowledgment"
	case "FIN_WAIT2":
		info.Explanation = "Local close acknowledged, waiting for remote close"
	case "TIME_WAIT":
		info.Explanation = "Connection closed, waiting for delayed packets"
		info.Workaround = "Wait for timeout to expire, or use SO_REUSEADDR in your server"
	case "CLOSE":
		info.Explanation = "Socket is closed"
	case "CLOSE_WAIT":
		info.Explanation = "Remote side closed connection, local side has not closed yet"
		info.Workaround = "The application should call close() on the socket"
	case "LAST_ACK":
		info.Explanation = "Waiting for final acknowledgment of close"
	case "CLOSING":
		info.Explanation = "Both sides initiated close simultaneously"
	default:
		info.Explanation = "Socket in " + info.State + " state"
	}
}
