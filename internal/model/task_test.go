package model

import "testing"

func TestAddTask(t *testing.T) {
	tasks := []Task{{ID: "1", Name: "資料作成"}}
	newTask := Task{ID: "2", Name: "レビュー依頼"}

	result := AddTask(tasks, newTask)

	if len(result) != 2 {
		t.Fatalf("expected length 2, got %d", len(result))
	}
	if result[1] != newTask {
		t.Errorf("expected appended task %+v, got %+v", newTask, result[1])
	}
	// 元の列は変更されない
	if len(tasks) != 1 {
		t.Errorf("original slice should be unchanged, got length %d", len(tasks))
	}
}

func TestAddTask_EmptyList(t *testing.T) {
	newTask := Task{ID: "1", Name: "新しいタスク"}

	result := AddTask(nil, newTask)

	if len(result) != 1 {
		t.Fatalf("expected length 1, got %d", len(result))
	}
	if result[0].Name != "新しいタスク" {
		t.Errorf("expected name %q, got %q", "新しいタスク", result[0].Name)
	}
}

func TestUpdateTaskName(t *testing.T) {
	tasks := []Task{
		{ID: "1", Name: "資料作成"},
		{ID: "2", Name: "レビュー依頼"},
	}

	result := UpdateTaskName(tasks, "1", "資料修正")

	if len(result) != 2 {
		t.Fatalf("expected length 2, got %d", len(result))
	}
	if result[0].Name != "資料修正" {
		t.Errorf("expected updated name %q, got %q", "資料修正", result[0].Name)
	}
	// 他のタスクは変更されない
	if result[1].Name != "レビュー依頼" {
		t.Errorf("other tasks should be unchanged, got %q", result[1].Name)
	}
	// 元の列は変更されない
	if tasks[0].Name != "資料作成" {
		t.Errorf("original slice should be unchanged, got %q", tasks[0].Name)
	}
}

func TestUpdateTaskName_UnknownID(t *testing.T) {
	tasks := []Task{{ID: "1", Name: "資料作成"}}

	result := UpdateTaskName(tasks, "2", "存在しないタスク")

	if len(result) != 1 {
		t.Fatalf("expected length 1, got %d", len(result))
	}
	if result[0] != tasks[0] {
		t.Errorf("expected unchanged task %+v, got %+v", tasks[0], result[0])
	}
}

func TestUpdateTaskName_EmptyList(t *testing.T) {
	result := UpdateTaskName(nil, "1", "新しい名前")

	if len(result) != 0 {
		t.Errorf("expected empty result, got length %d", len(result))
	}
}

func TestRemoveTask(t *testing.T) {
	tasks := []Task{
		{ID: "1", Name: "資料作成"},
		{ID: "2", Name: "レビュー依頼"},
	}

	result := RemoveTask(tasks, "1")

	if len(result) != 1 {
		t.Fatalf("expected length 1, got %d", len(result))
	}
	if result[0].ID != "2" {
		t.Errorf("expected remaining task ID %q, got %q", "2", result[0].ID)
	}
}

func TestRemoveTask_UnknownID(t *testing.T) {
	tasks := []Task{{ID: "1", Name: "資料作成"}}

	result := RemoveTask(tasks, "9")

	if len(result) != 1 {
		t.Errorf("expected length 1, got %d", len(result))
	}
}

func TestToggleTask(t *testing.T) {
	tasks := []Task{
		{ID: "1", Name: "資料作成", Completed: false},
		{ID: "2", Name: "レビュー依頼", Completed: true},
	}

	result := ToggleTask(tasks, "1")

	if !result[0].Completed {
		t.Error("task 1 should be completed after toggle")
	}
	if !result[1].Completed {
		t.Error("task 2 should be unchanged")
	}

	// 再度反転すると元に戻る
	again := ToggleTask(result, "1")
	if again[0].Completed {
		t.Error("task 1 should be incomplete after second toggle")
	}
}

func TestProjectInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   ProjectInput
		wantErr bool
	}{
		{
			name:    "有効な入力",
			input:   ProjectInput{Name: "旅行準備", Date: "2024-06-01", Progress: 50},
			wantErr: false,
		},
		{
			name:    "名前なし",
			input:   ProjectInput{Date: "2024-06-01"},
			wantErr: true,
		},
		{
			name:    "日付なし",
			input:   ProjectInput{Name: "旅行準備"},
			wantErr: true,
		},
		{
			name:    "進捗率が負",
			input:   ProjectInput{Name: "旅行準備", Date: "2024-06-01", Progress: -1},
			wantErr: true,
		},
		{
			name:    "進捗率が100超",
			input:   ProjectInput{Name: "旅行準備", Date: "2024-06-01", Progress: 101},
			wantErr: true,
		},
		{
			name:    "進捗率の境界値",
			input:   ProjectInput{Name: "旅行準備", Date: "2024-06-01", Progress: 100},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				apiErr, ok := err.(*APIError)
				if !ok {
					t.Fatalf("expected *APIError, got %T", err)
				}
				if apiErr.Code != ErrCodeValidationFailed {
					t.Errorf("expected code %q, got %q", ErrCodeValidationFailed, apiErr.Code)
				}
			}
		})
	}
}

func TestTravelInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   TravelInput
		wantErr bool
	}{
		{
			name:    "有効な入力",
			input:   TravelInput{Destination: "京都", Date: "2024-09-10"},
			wantErr: false,
		},
		{
			name:    "目的地なし",
			input:   TravelInput{Date: "2024-09-10"},
			wantErr: true,
		},
		{
			name:    "日付なし",
			input:   TravelInput{Destination: "京都"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
