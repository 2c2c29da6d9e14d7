package calendar

import (
	"time"

	"github.com/jrsteele09/gym-checkin/athletes"
)

// Weekdays are the grid's column headings.
var Weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Cell is one grid square. Day is zero for the padding before the first
// and after the last day of the month.
type Cell struct {
	Day    int
	Date   string
	Status athletes.DayStatus
}

func (c Cell) Empty() bool {
	return c.Day == 0
}

// Grid lays the month out in Monday-first weeks of seven cells.
func Grid(p Period) [][7]Cell {
	lead := mondayIndex(p.First().Weekday())
	days := p.DaysIn()

	weeks := [][7]Cell{}
	var week [7]Cell
	col := lead
	for d := 1; d <= days; d++ {
		week[col] = Cell{Day: d, Date: p.Date(d)}
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]Cell{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// AttendanceGrid is Grid with each day's attendance status filled in.
func AttendanceGrid(p Period, month athletes.AttendanceMonth) [][7]Cell {
	byDate := month.ByDate()
	weeks := Grid(p)
	for w := range weeks {
		for c := range weeks[w] {
			if day, ok := byDate[weeks[w][c].Date]; ok && !weeks[w][c].Empty() {
				weeks[w][c].Status = day.Status()
			}
		}
	}
	return weeks
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
