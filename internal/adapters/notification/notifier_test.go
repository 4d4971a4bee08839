package notification

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xvierd/lifegame-cli/internal/config"
	"github.com/xvierd/lifegame-cli/internal/domain"
	"github.com/xvierd/lifegame-cli/internal/ports"
)

type sent struct {
	title, message string
	alert          bool
}

func newTestNotifier(cfg *config.NotificationConfig, out *[]sent) *Notifier {
	n := New(cfg)
	n.notify = func(title, message string) error {
		*out = append(*out, sent{title, message, false})
		return nil
	}
	n.alert = func(title, message string) error {
		*out = append(*out, sent{title, message, true})
		return errors.New("no sound device")
	}
	return n
}

func TestNotifier_Notify(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.NotificationConfig
		kind domain.NotificationKind
		want []sent
	}{
		{
			name: "level-up reaches the desktop",
			cfg:  &config.NotificationConfig{Enabled: true},
			kind: domain.NotificationLevelUp,
			want: []sent{{"🎉 Level up!", "msg", false}},
		},
		{
			name: "sound uses an alert",
			cfg:  &config.NotificationConfig{Enabled: true, Sound: true},
			kind: domain.NotificationMonthReset,
			want: []sent{{"🔁 New month", "msg", true}},
		},
		{
			name: "plain success stays in the terminal",
			cfg:  &config.NotificationConfig{Enabled: true},
			kind: domain.NotificationSuccess,
		},
		{
			name: "disabled",
			cfg:  &config.NotificationConfig{Enabled: false},
			kind: domain.NotificationBonus,
		},
		{
			name: "nil config",
			kind: domain.NotificationBonus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []sent
			n := newTestNotifier(tt.cfg, &got)
			n.Notify(domain.NewNotification(tt.kind, "msg"))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFanout(t *testing.T) {
	var order []string
	record := func(name string) ports.Notifier {
		return ports.NotifierFunc(func(n domain.Notification) {
			order = append(order, name+":"+n.Message)
		})
	}

	f := Fanout{record("a"), nil, record("b")}
	f.Notify(domain.NewNotification(domain.NotificationInfo, "hi"))

	assert.Equal(t, []string{"a:hi", "b:hi"}, order)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, config.DefaultThemeConfig())

	c.Notify(domain.NewNotification(domain.NotificationSuccess, "✅ Ducha completed!"))
	c.Notify(domain.NewNotification(domain.NotificationKind("custom"), "plain"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Ducha completed!")
	assert.Equal(t, "plain", lines[1])
}
