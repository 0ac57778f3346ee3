package logic

import "testing"

func TestResolveFollowsSchedule(t *testing.T) {
	var table Table
	for h := 0; h < 24; h++ {
		table[h*2] = uint8(h)        // channel A = hour
		table[h*2+1] = uint8(h + 50) // channel B = hour + 50
	}

	for h := 0; h < 24; h++ {
		got := Resolve(h, table, Override{})
		if got.A != uint8(h) {
			t.Errorf("hour %d: A = %d, want %d", h, got.A, h)
		}
		if got.B != uint8(h+50) {
			t.Errorf("hour %d: B = %d, want %d", h, got.B, h+50)
		}
	}
}

func TestResolveOverrideWins(t *testing.T) {
	var table Table
	for i := range table {
		table[i] = 99
	}
	ov := Override{Active: true, LevelA: 30, LevelB: 70}

	for h := 0; h < 24; h++ {
		got := Resolve(h, table, ov)
		if got.A != 30 || got.B != 70 {
			t.Errorf("hour %d: got (%d,%d), want (30,70)", h, got.A, got.B)
		}
	}
}

func TestResolveInactiveOverrideIgnoresStaleLevels(t *testing.T) {
	var table Table
	table[0] = 11
	table[1] = 22
	ov := Override{Active: false, LevelA: 77, LevelB: 88} // stale

	got := Resolve(0, table, ov)
	if got.A != 11 || got.B != 22 {
		t.Errorf("got (%d,%d), want (11,22)", got.A, got.B)
	}
}

func TestResolveSingleNonZeroSlot(t *testing.T) {
	var table Table
	table[Slot(15, ChannelB)] = 55

	got := Resolve(15, table, Override{})
	if got.A != 0 {
		t.Errorf("A = %d, want 0", got.A)
	}
	if got.B != 55 {
		t.Errorf("B = %d, want 55", got.B)
	}
}

func TestResolveClampsHour(t *testing.T) {
	var table Table
	table[0] = 1  // hour 0, channel A
	table[46] = 2 // hour 23, channel A

	if got := Resolve(-5, table, Override{}); got.A != 1 {
		t.Errorf("hour -5: A = %d, want 1 (clamped to hour 0)", got.A)
	}
	if got := Resolve(24, table, Override{}); got.A != 2 {
		t.Errorf("hour 24: A = %d, want 2 (clamped to hour 23)", got.A)
	}
	if got := Resolve(9999, table, Override{}); got.A != 2 {
		t.Errorf("hour 9999: A = %d, want 2 (clamped to hour 23)", got.A)
	}
}

func TestSlotLayout(t *testing.T) {
	if Slot(0, ChannelA) != 0 {
		t.Errorf("Slot(0,A) = %d, want 0", Slot(0, ChannelA))
	}
	if Slot(0, ChannelB) != 1 {
		t.Errorf("Slot(0,B) = %d, want 1", Slot(0, ChannelB))
	}
	if Slot(15, ChannelB) != 31 {
		t.Errorf("Slot(15,B) = %d, want 31", Slot(15, ChannelB))
	}
	if Slot(23, ChannelB) != Slots-1 {
		t.Errorf("Slot(23,B) = %d, want %d", Slot(23, ChannelB), Slots-1)
	}
}

func TestTableAt(t *testing.T) {
	var table Table
	table[Slot(7, ChannelA)] = 40
	table[Slot(7, ChannelB)] = 60

	if got := table.At(7, ChannelA); got != 40 {
		t.Errorf("At(7,A) = %d, want 40", got)
	}
	if got := table.At(7, ChannelB); got != 60 {
		t.Errorf("At(7,B) = %d, want 60", got)
	}
	if got := table.At(30, ChannelA); got != table.At(23, ChannelA) {
		t.Errorf("At(30,A) = %d, want clamped to hour 23", got)
	}
}
