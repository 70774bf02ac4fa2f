package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/coursehub-api/internal/models"
)

func TestMaterialRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	mock.ExpectExec("INSERT INTO materials").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	material := &models.Material{
		CourseID: "c1", Title: "Week 1 slides", FileURL: "https://cdn.example/slides.pdf",
		PublicID: "courses/c1/abc", FileType: "pdf", FileName: "slides.pdf", FileSize: 1024,
		Category: models.MaterialCategoryLecture, Week: 1, UploadedBy: "t1",
	}
	require.NoError(t, repo.Create(context.Background(), material))
	assert.NotEmpty(t, material.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "course_id", "title", "description", "file_url", "public_id", "file_type",
		"file_name", "file_size", "category", "week", "uploaded_by", "created_at",
	}).
		AddRow("m1", "c1", "Week 1 slides", "", "https://cdn.example/a.pdf", "p1", "pdf", "a.pdf", 100, "Lecture", 1, "t1", time.Now()).
		AddRow("m2", "c1", "Week 2 lab", "", "https://cdn.example/b.zip", "p2", "zip", "b.zip", 200, "Lab", 2, "t1", time.Now())
	mock.ExpectQuery("SELECT id, course_id, title, .+ FROM materials WHERE 1=1 AND course_id = .+ ORDER BY week ASC").
		WithArgs("c1").
		WillReturnRows(rows)

	materials, err := repo.List(context.Background(), models.MaterialFilter{CourseID: "c1"})
	require.NoError(t, err)
	require.Len(t, materials, 2)
	assert.Equal(t, 1, materials[0].Week)
	assert.Equal(t, 2, materials[1].Week)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMaterialRepository(db)

	mock.ExpectExec("DELETE FROM materials").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Error(t, repo.Delete(context.Background(), "ghost"))
}
