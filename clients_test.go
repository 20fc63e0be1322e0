package rptlog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Channel_Log(t *testing.T) {
	rl := newInlineLog(10, nil)
	ch := rl.NewChannel("player")
	assert.Equal(t, "player", ch.Name())
	assert.True(t, ch.IsEnabled())
	ch.Error("e")
	ch.Warning("w")
	ch.Info("i")
	ch.Debug("d")
	ch.Status("s")
	ch.Err(errors.New(errorStr))
	ch.Err(nil)
	entries := rl.Snapshot()
	assert.Equal(t, []string{"e", "w", "i", "d", "s", errorStr}, messages(entries))
	for _, e := range entries {
		assert.Equal(t, "player", e.Channel())
	}
	assert.Equal(t, 2, rl.ErrorCount())
	assert.Equal(t, 1, rl.WarningCount())
}

func Test_ReportLog_SetChannelEnabled(t *testing.T) {
	rl := newInlineLog(10, nil)
	other := newInlineLog(10, nil)
	ch := rl.NewChannel("c")
	tests := []struct {
		wantErr string
		name    string // description of this test case
		ch      *Channel
	}{
		{"", "own", ch},
		{_ERROR_MESSAGE_CHANNEL_IS_NIL, "nil", nil},
		{_ERROR_MESSAGE_CHANNEL_IS_ALIEN, "alien", other.NewChannel("c")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rl.SetChannelEnabled(tt.ch, false)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.True(t, rl.IsOwnChannel(tt.ch))
			} else if assert.Error(t, err) {
				assert.Equal(t, tt.wantErr, err.Error())
				assert.False(t, rl.IsOwnChannel(tt.ch))
			}
		})
	}
	ch.Error("dropped")
	assert.Empty(t, rl.Snapshot())
	assert.Zero(t, rl.ErrorCount())
	assert.NoError(t, rl.SetChannelEnabled(ch, true))
	ch.Error("kept")
	assert.Equal(t, []string{"kept"}, messages(rl.Snapshot()))
}

func Test_Channel_Write(t *testing.T) {
	rl := newInlineLog(10, nil)
	ch := rl.NewChannel("w")
	n, err := fmt.Fprintf(ch.Lvl(SEV_WARNING), "dropped %d frames\n", 3)
	assert.NoError(t, err)
	assert.Equal(t, len("dropped 3 frames\n"), n)
	n, err = ch.Lvl(Severity(100)).Write([]byte(testlogstr + "\r\n"))
	assert.NoError(t, err)
	assert.Equal(t, len(testlogstr)+2, n)
	n, err = ch.Write(nil)
	assert.NoError(t, err)
	assert.Zero(t, n)

	entries := rl.Snapshot()
	assert.Equal(t, []string{"dropped 3 frames"}, messages(entries), "unknown severity written as None")
	assert.Equal(t, SEV_WARNING, entries[0].Severity())
	assert.Equal(t, testlogstr, rl.StatusText())
}

func Test_Channel_orphan(t *testing.T) {
	var ch Channel
	assert.NotPanics(t, func() { ch.Info("nowhere") })
}
