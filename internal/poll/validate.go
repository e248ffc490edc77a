package poll

// Validate checks a poll being authored and returns the names of the
// fields that fail: "title", "question", "maxvoters" or the index of a
// missing answer. Answers must be filled without gaps starting from slot
// 0, and at least the first two are required.
//
// As a side effect it derives NumberOfOptions from the trailing empty
// answer slots, so a poll with three answers reports three options.
func (p *Poll) Validate() []string {
	var failed []string

	if p.Title == "" {
		failed = append(failed, "title")
	}
	if p.Question == "" {
		failed = append(failed, "question")
	}
	if p.MaxVoters <= 0 {
		failed = append(failed, "maxvoters")
	}
	if p.Options[0] == "" {
		failed = append(failed, "0")
	}
	if p.Options[1] == "" {
		failed = append(failed, "1")
	}
	if p.Options[3] != "" && p.Options[2] == "" {
		failed = append(failed, "2")
	}
	if p.Options[4] != "" && p.Options[3] == "" {
		failed = append(failed, "3")
	}

	switch {
	case p.Options[2] == "":
		p.NumberOfOptions = 2
	case p.Options[3] == "":
		p.NumberOfOptions = 3
	case p.Options[4] == "":
		p.NumberOfOptions = 4
	default:
		p.NumberOfOptions = 5
	}

	return failed
}
