package models

// Project is a row of project_votes. Column names match the existing schema.
type Project struct {
	ID        int64  `gorm:"column:ProjectID;primaryKey" json:"ProjectID"`
	Name      string `gorm:"column:ProjectName;unique" json:"ProjectName"`
	Country   string `gorm:"column:ProjectCountry" json:"ProjectCountry"`
	IconCode  string `gorm:"column:IconCode" json:"IconCode"`
	Colour    string `gorm:"column:GraphColour" json:"GraphColour"`
	VoteCount int    `gorm:"column:VoteCount" json:"VoteCount"`
}

func (Project) TableName() string { return "project_votes" }

// ProjectVotes is the public shape of a project in the votes summary
type ProjectVotes struct {
	ProjectName    string `json:"ProjectName"`
	ProjectCountry string `json:"ProjectCountry"`
	IconCode       string `json:"IconCode"`
	GraphColour    string `json:"GraphColour"`
	VoteCount      int    `json:"VoteCount"`
}

func (p Project) Votes() ProjectVotes {
	return ProjectVotes{
		ProjectName:    p.Name,
		ProjectCountry: p.Country,
		IconCode:       p.IconCode,
		GraphColour:    p.Colour,
		VoteCount:      p.VoteCount,
	}
}
