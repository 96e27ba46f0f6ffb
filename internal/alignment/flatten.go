package alignment

// Flatten concatenates the words of every segment into a single ordered
// sequence, keeping only word, start and end. The result is never nil so an
// empty alignment encodes as [].
func Flatten(result Result) []WordTiming {
	out := make([]WordTiming, 0, result.WordCount())
	for _, seg := range result.Segments {
		for _, w := range seg.Words {
			out = append(out, WordTiming{Word: w.Word, Start: w.Start, End: w.End})
		}
	}
	return out
}
