package models

import (
	"time"

	"gorm.io/datatypes"
)

// CVSubmission 简历提交/抽取结果表
// 结构化字段冗余存一份标量列便于检索，完整档案以JSON列落库
type CVSubmission struct {
	SubmissionUUID   string `gorm:"type:char(36);primaryKey"`
	OriginalFilename string `gorm:"type:varchar(255)"`
	FileKind         string `gorm:"type:varchar(10)"`
	// MinIO对象键
	OriginalFilePathOSS string `gorm:"type:varchar(1024)"`
	RawTextPathOSS      string `gorm:"type:varchar(1024)"`
	RawFileMD5          string `gorm:"type:char(32);index:idx_cv_raw_file_md5"`

	// 抽取的标量字段
	FullName string `gorm:"type:varchar(255)"`
	Email    string `gorm:"type:varchar(255);index:idx_cv_email"`
	Phone    string `gorm:"type:varchar(50)"`
	City     string `gorm:"type:varchar(100)"`

	// 结构化字段(JSON列)
	SkillsJSON     datatypes.JSON `gorm:"type:json"`
	ExperienceJSON datatypes.JSON `gorm:"type:json"`
	EducationJSON  datatypes.JSON `gorm:"type:json"`
	LanguagesJSON  datatypes.JSON `gorm:"type:json"`

	ProcessingStatus string    `gorm:"type:varchar(50);default:'COMPLETED';index:idx_cv_processing_status"`
	ParserVersion    string    `gorm:"type:varchar(50)"`
	CreatedAt        time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_cv_created_at"`
	UpdatedAt        time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (CVSubmission) TableName() string {
	return "cv_submissions"
}
