package server

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

// Every message is a 4-byte little-endian length followed by a JSON body.

func intToBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func bytesToInt(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func read(mu *sync.Mutex, r io.Reader) ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()
	head := make([]byte, 4)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, err
	}
	n := bytesToInt(head)
	if n > common.MaxMessageSize {
		return nil, fmt.Errorf("message of %d bytes exceeds limit of %d", n, common.MaxMessageSize)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func write(mu *sync.Mutex, w io.Writer, b []byte) error {
	mu.Lock()
	defer mu.Unlock()
	frame := make([]byte, 0, 4+len(b))
	frame = append(frame, intToBytes(uint32(len(b)))...)
	frame = append(frame, b...)
	_, err := w.Write(frame)
	return err
}
