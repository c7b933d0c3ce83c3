// Command ice-ssh-client dials a TCP connection through a Context and
// drives golang.org/x/crypto/ssh over it via a Transport, demonstrating
// that the SSH transport adapter's net.Conn bridge is enough for a real
// SSH client stack: no code in x/crypto/ssh needs to know its underlying
// connection is asynchronous.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"net/netip"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/ehrlich-b/go-ice"
)

func main() {
	var (
		addr = flag.String("addr", "127.0.0.1", "SSH server address")
		port = flag.Uint("port", 22, "SSH server port")
		user = flag.String("user", "root", "SSH username")
		cmd  = flag.String("cmd", "echo hello from ice", "remote command to run")
	)
	flag.Parse()

	ctx, err := ice.New(ice.DefaultOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, "new context:", err)
		os.Exit(1)
	}
	defer ctx.Close()

	go ctx.Run()
	defer ctx.Stop()

	remote := ice.NewEndpoint(netip.MustParseAddr(*addr), uint16(*port))
	conn, err := ice.DialTCP(ctx, remote)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dial:", err)
		os.Exit(1)
	}

	transport := ice.NewTransport(conn)

	config := &ssh.ClientConfig{
		User:            *user,
		Auth:            []ssh.AuthMethod{ssh.Password(os.Getenv("ICE_SSH_PASSWORD"))},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(transport, remote.String(), config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ssh handshake:", err)
		os.Exit(1)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		fmt.Fprintln(os.Stderr, "new session:", err)
		os.Exit(1)
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out
	if err := session.Run(*cmd); err != nil {
		fmt.Fprintln(os.Stderr, "run:", err)
		os.Exit(1)
	}
	fmt.Print(out.String())
}
