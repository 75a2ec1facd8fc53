package challenge

// Challenge is a single prompt in a catalog. Challenges are identified by
// their position in the catalog and are never mutated once loaded.
type Challenge struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	ExpectedAnswer string `json:"answer"`
	Points         int    `json:"points"`
}

// Catalog is an ordered challenge sequence plus the level thresholds used to
// derive a player's level from their score.
type Catalog struct {
	Name       string      `json:"name"`
	Challenges []Challenge `json:"challenges"`

	// Thresholds holds the minimum score for each level. Index 0 is level 1
	// and must be 0.
	Thresholds []int `json:"thresholds"`
}

// DefaultThresholds are the level thresholds of the built-in catalog.
func DefaultThresholds() []int {
	return []int{0, 50, 100, 150}
}

// Default returns the built-in five-challenge catalog.
func Default() Catalog {
	return Catalog{
		Name: "Galaxy One",
		Challenges: []Challenge{
			{
				Title:          "Challenge 1: Basic Math",
				Description:    "What is 5 + 7?",
				ExpectedAnswer: "12",
				Points:         10,
			},
			{
				Title:          "Challenge 2: Logic Puzzle",
				Description:    "If there are 3 apples and you take away 2, how many do you have?",
				ExpectedAnswer: "2",
				Points:         15,
			},
			{
				Title:          "Challenge 3: Pattern Recognition",
				Description:    "Complete the sequence: 2, 4, 8, 16, __?",
				ExpectedAnswer: "32",
				Points:         20,
			},
			{
				Title:          "Challenge 4: Basic Coding",
				Description:    "In modern JavaScript (ES6+), what is the recommended keyword to declare a block-scoped variable? (hint: 3 letters)",
				ExpectedAnswer: "let",
				Points:         25,
			},
			{
				Title:          "Challenge 5: Algorithm Thinking",
				Description:    "What is the result of 3 * (4 + 2)?",
				ExpectedAnswer: "18",
				Points:         30,
			},
		},
		Thresholds: DefaultThresholds(),
	}
}

// Len returns the number of challenges in the catalog.
func (c Catalog) Len() int {
	return len(c.Challenges)
}

// TotalPoints returns the score a player earns by answering every
// challenge correctly.
func (c Catalog) TotalPoints() int {
	total := 0
	for _, ch := range c.Challenges {
		total += ch.Points
	}
	return total
}

// MaxLevel returns the highest level defined by the thresholds.
func (c Catalog) MaxLevel() int {
	return len(c.Thresholds)
}
