package experiment

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mazoezi/core"
)

var (
	difficultyTag  = "difficulty"
	difficultyText = "must be one of: beginner, intermediate, advanced"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(difficultyTag, difficultyValidation)
	core.RegisterCustomTranslation(validate, translator, difficultyTag, difficultyText)
}

func difficultyValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, d := range Difficulties {
		if val == d {
			return true
		}
	}
	return false
}

func (ne *NewExperiment) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Difficulty = core.CleanString(ne.Difficulty, true /* lower */)
	ne.NotebookPath = core.CleanString(ne.NotebookPath)
	ne.CreatedBy = core.CleanString(ne.CreatedBy)
	return validate.Struct(ne)
}

func (ue *UpdateExperiment) Validate(validate *validator.Validate) error {
	ue.Title = core.CleanString(ue.Title)
	ue.Difficulty = core.CleanString(ue.Difficulty, true /* lower */)
	ue.NotebookPath = core.CleanString(ue.NotebookPath)
	ue.CreatedBy = core.CleanString(ue.CreatedBy)
	return validate.Struct(ue)
}
