// Package redisfake serves the handful of Redis commands the activity cache
// sends, over the real wire protocol, so clients can be tested without a
// Redis server.
package redisfake

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type Server struct {
	listener net.Listener

	mu       sync.Mutex
	lists    map[string][]string
	password string
	db       int
	commands []string
}

// Start listens on a random local port until the test ends.
func Start(t *testing.T) *Server {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	server := &Server{listener: listener, lists: map[string][]string{}}
	go server.serve()
	t.Cleanup(func() { _ = listener.Close() })

	return server
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Password returns the password of the last AUTH command.
func (s *Server) Password() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.password
}

// DB returns the database of the last SELECT command.
func (s *Server) DB() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// Commands lists the received command names in order.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		args, err := readCommand(reader)
		if err != nil {
			return
		}
		if _, err := io.WriteString(conn, s.execute(args)); err != nil {
			return
		}
	}
}

func readCommand(reader *bufio.Reader) ([]string, error) {
	header, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(header, "*") {
		return nil, fmt.Errorf("unexpected header %q", header)
	}

	count, err := strconv.Atoi(header[1:])
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, count)
	for i := 0; i < count; i++ {
		sizeLine, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimPrefix(sizeLine, "$"))
		if err != nil {
			return nil, err
		}

		data := make([]byte, size+2)
		if _, err := io.ReadFull(reader, data); err != nil {
			return nil, err
		}
		args = append(args, string(data[:size]))
	}

	return args, nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Server) execute(args []string) string {
	if len(args) == 0 {
		return "-ERR empty command\r\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.ToUpper(args[0])
	s.commands = append(s.commands, name)

	switch {
	case name == "PING":
		return "+PONG\r\n"
	case name == "AUTH" && len(args) == 2:
		s.password = args[1]
		return "+OK\r\n"
	case name == "SELECT" && len(args) == 2:
		db, err := strconv.Atoi(args[1])
		if err != nil {
			return "-ERR invalid DB index\r\n"
		}
		s.db = db
		return "+OK\r\n"
	case name == "LPUSH" && len(args) >= 3:
		list := s.lists[args[1]]
		for _, value := range args[2:] {
			list = append([]string{value}, list...)
		}
		s.lists[args[1]] = list
		return fmt.Sprintf(":%d\r\n", len(list))
	case name == "LTRIM" && len(args) == 4:
		list := s.lists[args[1]]
		start, stop := bounds(len(list), args[2], args[3])
		s.lists[args[1]] = append([]string(nil), list[start:stop]...)
		return "+OK\r\n"
	case name == "LRANGE" && len(args) == 4:
		list := s.lists[args[1]]
		start, stop := bounds(len(list), args[2], args[3])
		var reply strings.Builder
		fmt.Fprintf(&reply, "*%d\r\n", stop-start)
		for _, value := range list[start:stop] {
			fmt.Fprintf(&reply, "$%d\r\n%s\r\n", len(value), value)
		}
		return reply.String()
	default:
		return fmt.Sprintf("-ERR unknown command '%s'\r\n", args[0])
	}
}

// bounds turns inclusive Redis indexes into a half-open slice range.
func bounds(length int, from, to string) (int, int) {
	start, _ := strconv.Atoi(from)
	stop, _ := strconv.Atoi(to)
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	start = max(start, 0)
	stop = min(stop+1, length)
	if start >= stop {
		return 0, 0
	}
	return start, stop
}
