package proc

import (
	"bufio"
	"encoding/binary"
	"net"
	"strconv"
	"strings"

	"github.com/pranshuparmar/witr/pkg/model"
)

// DecodeProcNet decodes the text of /proc/net/tcp or /proc/net/tcp6 into a
// table keyed by socket inode. The header line and malformed rows are
// skipped; decoding never fails as a whole.
func DecodeProcNet(raw string, ipv6 bool) map[model.SocketID]model.SocketInfo {
	table := make(map[model.SocketID]model.SocketInfo)
	decodeProcNetInto(table, raw, ipv6)
	return table
}

func decodeProcNetInto(table map[model.SocketID]model.SocketInfo, raw string, ipv6 bool) {
	protocol := "tcp"
	if ipv6 {
		protocol = "tcp6"
	}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 10 || fields[0] == "sl" {
			continue
		}

		localIP, localPort, ok := decodeHexAddr(fields[1], ipv6)
		if !ok {
			continue
		}
		remoteIP, remotePort, ok := decodeHexAddr(fields[2], ipv6)
		if !ok {
			continue
		}
		inode := fields[9]
		if _, err := strconv.ParseUint(inode, 10, 64); err != nil || inode == "0" {
			continue
		}

		info := model.SocketInfo{
			Protocol:   protocol,
			Port:       localPort,
			State:      StateFromCode(fields[3]),
			LocalAddr:  localIP,
			RemoteAddr: net.JoinHostPort(remoteIP, strconv.Itoa(remotePort)),
		}
		Explain(&info)
		table[model.SocketID(inode)] = info
	}
}

// decodeHexAddr decodes "0100007F:1F90" style address:port pairs. Each
// 32-bit word of the address is stored little-endian; the port is plain
// big-endian hex.
func decodeHexAddr(raw string, ipv6 bool) (string, int, bool) {
	ipHex, portHex, found := strings.Cut(raw, ":")
	if !found || len(portHex) != 4 {
		return "", 0, false
	}
	port, err := strconv.ParseUint(portHex, 16, 16)
	if err != nil {
		return "", 0, false
	}

	words := 1
	if ipv6 {
		words = 4
	}
	if len(ipHex) != words*8 {
		return "", 0, false
	}

	ip := make(net.IP, words*4)
	for i := 0; i < words; i++ {
		w, err := strconv.ParseUint(ipHex[i*8:(i+1)*8], 16, 32)
		if err != nil {
			return "", 0, false
		}
		binary.LittleEndian.PutUint32(ip[i*4:], uint32(w))
	}
	return ip.String(), int(port), true
}
