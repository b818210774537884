package courses

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/registrar/internal/database"
	"github.com/mrlokans/registrar/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "courses.db"), database.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB), db.DB
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupTestDB(t)

	created, err := repo.Create("Databases", "Relational modelling")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	course, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Databases", course.Title)
	assert.Equal(t, "Relational modelling", course.Description)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.Create("Compilers", "Parsing")
	require.NoError(t, err)
	_, err = repo.Create("Networks", "TCP/IP")
	require.NoError(t, err)

	courses, err := repo.List()
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Compilers", courses[0].Title)
	assert.Equal(t, "Networks", courses[1].Title)
}

func TestRepository_Roster(t *testing.T) {
	repo, db := setupTestDB(t)

	course, err := repo.Create("Compilers", "Parsing")
	require.NoError(t, err)

	t.Run("empty roster", func(t *testing.T) {
		roster, err := repo.Roster(course.ID)
		require.NoError(t, err)
		assert.NotNil(t, roster)
		assert.Empty(t, roster)
	})

	t.Run("enrolled students", func(t *testing.T) {
		student := &entities.Student{Name: "Grace", Email: "grace@example.com"}
		require.NoError(t, db.Create(student).Error)
		require.NoError(t, db.Create(&entities.Enrolment{StudentID: student.ID, CourseID: course.ID}).Error)

		roster, err := repo.Roster(course.ID)
		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.Equal(t, "Grace", roster[0].Name)
	})

	t.Run("missing course", func(t *testing.T) {
		_, err := repo.Roster(9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepository_Update(t *testing.T) {
	repo, _ := setupTestDB(t)

	created, err := repo.Create("Compilers", "Parsing")
	require.NoError(t, err)

	course, err := repo.Update(created.ID, map[string]any{"title": "Compiler Construction"})
	require.NoError(t, err)
	assert.Equal(t, "Compiler Construction", course.Title)
	assert.Equal(t, "Parsing", course.Description)

	_, err = repo.Update(9999, map[string]any{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_DeleteCascadesEnrolments(t *testing.T) {
	repo, db := setupTestDB(t)

	course, err := repo.Create("Compilers", "Parsing")
	require.NoError(t, err)
	student := &entities.Student{Name: "Grace", Email: "grace@example.com"}
	require.NoError(t, db.Create(student).Error)
	require.NoError(t, db.Create(&entities.Enrolment{StudentID: student.ID, CourseID: course.ID}).Error)

	require.NoError(t, repo.Delete(course.ID))
	assert.ErrorIs(t, repo.Delete(course.ID), ErrNotFound)

	var enrolments int64
	require.NoError(t, db.Model(&entities.Enrolment{}).Count(&enrolments).Error)
	assert.Zero(t, enrolments)

	var students int64
	require.NoError(t, db.Model(&entities.Student{}).Count(&students).Error)
	assert.Equal(t, int64(1), students, "students must survive a course delete")
}

func TestRepository_DeleteAll(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.Create("Compilers", "Parsing")
	require.NoError(t, err)
	_, err = repo.Create("Networks", "TCP/IP")
	require.NoError(t, err)

	deleted, err := repo.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}
