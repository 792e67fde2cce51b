package algorithms

import (
	"github.com/fdrose/compgraph/internal/graph"
	"github.com/fdrose/compgraph/internal/operations"
)

// YandexMapsGraph constructs a graph computing average travel speed
// per (weekday, hour) bucket from two input streams: one carrying
// edge traversal timestamps, the other edge endpoint coordinates.
func YandexMapsGraph(
	inputStreamNameTime, inputStreamNameLength string,
	enterTimeColumn, leaveTimeColumn, edgeIDColumn, startCoordColumn, endCoordColumn string,
	weekdayResultColumn, hourResultColumn, speedResultColumn string,
) *graph.Graph {
	return YandexMapsGraphFile(
		inputStreamNameTime, "", nil,
		inputStreamNameLength, "", nil,
		enterTimeColumn, leaveTimeColumn, edgeIDColumn, startCoordColumn, endCoordColumn,
		weekdayResultColumn, hourResultColumn, speedResultColumn,
	)
}

// YandexMapsGraphFile is YandexMapsGraph reading both streams from
// files instead of named in-memory sources.
func YandexMapsGraphFile(
	inputStreamNameTime, filenameTime string, parserTime Parser,
	inputStreamNameLength, filenameLength string, parserLength Parser,
	enterTimeColumn, leaveTimeColumn, edgeIDColumn, startCoordColumn, endCoordColumn string,
	weekdayResultColumn, hourResultColumn, speedResultColumn string,
) *graph.Graph {
	timeReader := Reader(inputStreamNameTime, filenameTime, parserTime)
	lengthReader := Reader(inputStreamNameLength, filenameLength, parserLength)

	splitTime := timeReader.Copy().
		Map(operations.HourWeekday{Column: enterTimeColumn, WeekdayColumn: weekdayResultColumn, HourColumn: hourResultColumn}).
		Map(operations.TimeDiff{ResultColumn: "time_hours", StartTime: enterTimeColumn, EndTime: leaveTimeColumn}).
		Sort([]string{edgeIDColumn})

	splitLength := lengthReader.Copy().
		Map(operations.Haversine{ResultColumn: "length", FirstPoint: startCoordColumn, SecondPoint: endCoordColumn}).
		Sort([]string{edgeIDColumn})

	joined := splitTime.
		Join(operations.InnerJoiner{}, splitLength, []string{edgeIDColumn}).
		Sort([]string{weekdayResultColumn, hourResultColumn})

	totalLength := joined.Copy().
		Reduce(operations.Sum{Column: "length"}, []string{weekdayResultColumn, hourResultColumn})

	totalTime := joined.Copy().
		Reduce(operations.Sum{Column: "time_hours"}, []string{weekdayResultColumn, hourResultColumn})

	// Average speed per bucket is total distance over total time, not
	// the mean of per-traversal speeds: sum(length)/sum(time), not
	// mean(length/time).
	return totalLength.
		Join(operations.InnerJoiner{}, totalTime, []string{weekdayResultColumn, hourResultColumn}).
		Map(operations.Divide{Numerator: "length", Denominator: "time_hours", ResultColumn: speedResultColumn})
}
