package content

// QuestionsPerSet is the length of every competition schedule.
const QuestionsPerSet = 60

// ChoicesPerQuestion is fixed by the on-screen card layout.
const ChoicesPerQuestion = 3

// Question is one static bank item: a word-choice question with one
// canonical correct choice. Loaded once, never mutated.
type Question struct {
	ID      int      `yaml:"id" json:"id"`
	Choices []string `yaml:"choices" json:"choices"`
	Correct int      `yaml:"correct" json:"correct"`
}

// ScheduleEntry pairs a bank item with which choice is the spoken target
// for one competition set.
type ScheduleEntry struct {
	ID     int `yaml:"id" json:"id"`
	Target int `yaml:"target" json:"target"`
}

// ResolvedQuestion is a schedule or pool entry joined against the bank.
// TargetIdx is the index of the spoken word within Choices; for practice
// pool entries it doubles as the correct answer index, since the learner
// is asked to pick the word that was spoken.
type ResolvedQuestion struct {
	ID        int      `json:"id"`
	Choices   []string `json:"choices"`
	TargetIdx int      `json:"target_idx"`
	Sound     string   `json:"sound"`
}

type bankFile struct {
	Questions []Question `yaml:"questions"`
}

type setsFile struct {
	Sets map[string][]ScheduleEntry `yaml:"sets"`
}
