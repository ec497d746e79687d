package logger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogBufferKeepsMostRecent(t *testing.T) {
	buffer := NewLogBuffer(3)
	log, err := CreateTUILoggerWithBuffer(false, buffer)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		log.Info(fmt.Sprintf("message %d", i), zap.Int("n", i))
	}
	log.Debug("hidden below info level")

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 3)
	assert.Equal(t, "message 2", logs[0].Message)
	assert.Equal(t, "message 4", logs[2].Message)
	assert.Equal(t, "info", logs[2].Level)
	assert.Equal(t, 4.0, logs[2].Fields["n"])
	assert.False(t, logs[2].Timestamp.IsZero())
	assert.Equal(t, uint64(5), buffer.Total())

	last := buffer.GetRecentLogs(2)
	require.Len(t, last, 2)
	assert.Equal(t, "message 3", last[0].Message)
}

func TestLogBufferBeforeWrap(t *testing.T) {
	buffer := NewLogBuffer(10)
	log, err := CreateTUILoggerWithBuffer(true, buffer)
	require.NoError(t, err)

	log.Named("dashboard").Debug("one")
	log.Warn("two")

	logs := buffer.GetRecentLogs(5)
	require.Len(t, logs, 2)
	assert.Equal(t, "dashboard", logs[0].Logger)
	assert.Equal(t, "warn", logs[1].Level)
}

func TestLogBufferConcurrentAccess(t *testing.T) {
	buffer := NewLogBuffer(100)
	log, err := CreateTUILoggerWithBuffer(false, buffer)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				log.Info("tick", zap.Int("goroutine", id), zap.Int("iteration", j))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = buffer.GetRecentLogs(10)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(1000), buffer.Total())
	assert.Len(t, buffer.GetRecentLogs(0), 100)
}

func TestCreateTUILoggerRequiresBuffer(t *testing.T) {
	_, err := CreateTUILoggerWithBuffer(false, nil)
	assert.Error(t, err)
}

func TestBadWrite(t *testing.T) {
	_, err := NewLogBuffer(1).Write([]byte("not json"))
	assert.Error(t, err)
}
