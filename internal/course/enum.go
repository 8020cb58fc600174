package course

type ProgrammingLanguage string

const (
	LanguagePython ProgrammingLanguage = "PROGRAMMING_LANGUAGE_PYTHON"
	LanguageGo     ProgrammingLanguage = "PROGRAMMING_LANGUAGE_GO"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "LEVEL_BEGINNER"
	LevelIntermediate CourseLevel = "LEVEL_INTERMEDIATE"
	LevelAdvanced     CourseLevel = "LEVEL_ADVANCED"
)

type MaterialLanguage string

const (
	MaterialLanguageRU  MaterialLanguage = "LANGUAGE_RU"
	MaterialLanguageENG MaterialLanguage = "LANGUAGE_ENG"
)

type MaterialType string

const (
	MaterialTypeText   MaterialType = "MATERIAL_TYPE_TEXT"
	MaterialTypeVideo  MaterialType = "MATERIAL_TYPE_VIDEO"
	MaterialTypeCourse MaterialType = "MATERIAL_TYPE_COURSE"
)

var AllMaterialTypes = []MaterialType{
	MaterialTypeText,
	MaterialTypeVideo,
	MaterialTypeCourse,
}

func (m MaterialType) IsValid() bool {
	for _, v := range AllMaterialTypes {
		if m == v {
			return true
		}
	}
	return false
}
