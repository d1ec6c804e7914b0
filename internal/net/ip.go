package net

import (
	"log"
	"net"
)

// GetOutgoingIP returns the LAN address the share URL should advertise.
// The UDP dial sends nothing; it only asks the kernel which interface
// routes outward.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return interfaceIP()
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.IsUnspecified() {
		return interfaceIP()
	}
	return addr.IP.String(), nil
}

// interfaceIP is used when there is no route out, e.g. an offline laptop
// serving a browser on the same machine.
func interfaceIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	return firstIPv4(addrs), nil
}

// firstIPv4 picks the first non-loopback IPv4 address. With none the
// bridge is only reachable from this machine.
func firstIPv4(addrs []net.Addr) string {
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
			continue
		}
		return ipnet.IP.String()
	}
	log.Println("[BRIDGE] No LAN address, share URL will use loopback")
	return "127.0.0.1"
}
