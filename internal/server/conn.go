package server

import (
	"net"
	"sync"
	"time"
)

// SyncConn serializes framed reads and writes on a connection. Responses and
// watch pushes share the write side.
type SyncConn struct {
	Conn     net.Conn
	rmu, wmu sync.Mutex
}

func NewSyncConn(conn net.Conn) *SyncConn {
	return &SyncConn{
		Conn: conn,
	}
}

func (s *SyncConn) Write(b []byte) error {
	return write(&s.wmu, s.Conn, b)
}

func (s *SyncConn) Read() ([]byte, error) {
	return read(&s.rmu, s.Conn)
}

// WriteTimeout writes b, failing if the peer does not accept it within d.
func (s *SyncConn) WriteTimeout(b []byte, d time.Duration) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	_ = s.Conn.SetWriteDeadline(time.Now().Add(d))
	defer s.Conn.SetWriteDeadline(time.Time{})
	frame := append(intToBytes(uint32(len(b))), b...)
	_, err := s.Conn.Write(frame)
	return err
}
