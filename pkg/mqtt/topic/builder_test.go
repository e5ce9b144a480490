package topic

import "testing"

func TestTopicBuilder(t *testing.T) {
	b := NewTopicBuilder("alarmbridge/v1/")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"alarm", b.Alarm("8800123", "17"), "alarmbridge/v1/alarm/8800123/17"},
		{"alarm empty type", b.Alarm("8800123", ""), "alarmbridge/v1/alarm/8800123/unknown"},
		{"alarm sanitised", b.Alarm("a/b+#", "3"), "alarmbridge/v1/alarm/a_b__/3"},
		{"wildcard", b.AlarmWildcard(), "alarmbridge/v1/alarm/#"},
		{"status", b.Status("bridge-1"), "alarmbridge/v1/status/bridge-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
