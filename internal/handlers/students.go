package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/campus-events/internal/models"
	"gorm.io/gorm"
)

type StudentHandler struct {
	db *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{db: db}
}

type ListStudentsInput struct {
	CollegeID uint `query:"college_id" doc:"Only students of this college"`
}

type ListStudentsOutput struct {
	Body []StudentResponse
}

func (h *StudentHandler) HandleList(ctx context.Context, input *ListStudentsInput) (*ListStudentsOutput, error) {
	q := h.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if input.CollegeID != 0 {
		q = q.Where("college_id = ?", input.CollegeID)
	}

	var students []models.Student
	if err := q.Find(&students).Error; err != nil {
		return nil, internalError(ctx, "Failed to fetch students", err)
	}

	out := &ListStudentsOutput{Body: make([]StudentResponse, 0, len(students))}
	for _, s := range students {
		out.Body = append(out.Body, newStudentResponse(s))
	}
	return out, nil
}

type CreateStudentInput struct {
	Body struct {
		Name          string `json:"name" doc:"Full name" minLength:"1" maxLength:"200"`
		Email         string `json:"email" doc:"Email address, unique" format:"email"`
		StudentNumber string `json:"student_id" doc:"Institution-issued student id, unique" minLength:"1" maxLength:"64"`
		CollegeID     uint   `json:"college_id" doc:"College the student belongs to" minimum:"1"`
	}
}

type StudentOutput struct {
	Body StudentResponse
}

func (h *StudentHandler) HandleCreate(ctx context.Context, input *CreateStudentInput) (*StudentOutput, error) {
	db := h.db.WithContext(ctx)

	var college models.College
	if err := db.Select("id").First(&college, input.Body.CollegeID).Error; err != nil {
		return nil, notFound(ctx, "College", err)
	}

	student := models.Student{
		Name:          input.Body.Name,
		Email:         input.Body.Email,
		StudentNumber: input.Body.StudentNumber,
		CollegeID:     college.ID,
	}
	if err := db.Create(&student).Error; err != nil {
		return nil, saveError(ctx, "Failed to create student", err)
	}
	return &StudentOutput{Body: newStudentResponse(student)}, nil
}

type GetStudentInput struct {
	ID uint `path:"id"`
}

func (h *StudentHandler) HandleGet(ctx context.Context, input *GetStudentInput) (*StudentOutput, error) {
	var student models.Student
	if err := h.db.WithContext(ctx).First(&student, input.ID).Error; err != nil {
		return nil, notFound(ctx, "Student", err)
	}
	return &StudentOutput{Body: newStudentResponse(student)}, nil
}

// StudentRef identifies a student by institution id or email. Students
// have no accounts; either identifier is accepted.
type StudentRef struct {
	StudentNumber string `json:"student_id,omitempty" doc:"Institution-issued student id"`
	Email         string `json:"email,omitempty" doc:"Student email"`
}

// findStudent resolves a StudentRef, matching either identifier.
func findStudent(ctx context.Context, db *gorm.DB, ref StudentRef) (models.Student, error) {
	var student models.Student
	if ref.StudentNumber == "" && ref.Email == "" {
		return student, huma.Error400BadRequest("Provide student_id or email")
	}

	q := db.WithContext(ctx)
	switch {
	case ref.StudentNumber != "" && ref.Email != "":
		q = q.Where("student_number = ? OR email = ?", ref.StudentNumber, ref.Email)
	case ref.StudentNumber != "":
		q = q.Where("student_number = ?", ref.StudentNumber)
	default:
		q = q.Where("email = ?", ref.Email)
	}

	if err := q.First(&student).Error; err != nil {
		return student, notFound(ctx, "Student", err)
	}
	return student, nil
}
