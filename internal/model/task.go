// Package model はドメインモデルを定義する。
package model

// Task はプロジェクト内のタスクを表す。
// 独立したライフサイクルを持たず、所有権は親プロジェクトから継承する。
// IDはプロジェクト内で一意であり、挿入順が表示順となる。
type Task struct {
	ID        string
	Name      string
	Completed bool
}

// AddTask はタスク列の末尾にタスクを追加した新しい列を返す。
// 元の列は変更しない。
func AddTask(tasks []Task, task Task) []Task {
	result := make([]Task, 0, len(tasks)+1)
	result = append(result, tasks...)
	result = append(result, task)
	return result
}

// UpdateTaskName は指定IDのタスク名を変更した新しい列を返す。
// 該当IDが存在しない場合は元の内容と等しい列を返す。他のタスクは変更しない。
func UpdateTaskName(tasks []Task, taskID, name string) []Task {
	result := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.ID == taskID {
			t.Name = name
		}
		result[i] = t
	}
	return result
}

// RemoveTask は指定IDのタスクを取り除いた新しい列を返す。
// 該当IDが存在しない場合は元の内容と等しい列を返す。
func RemoveTask(tasks []Task, taskID string) []Task {
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == taskID {
			continue
		}
		result = append(result, t)
	}
	return result
}

// ToggleTask は指定IDのタスクの完了フラグを反転した新しい列を返す。
// 該当IDが存在しない場合は元の内容と等しい列を返す。
func ToggleTask(tasks []Task, taskID string) []Task {
	result := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.ID == taskID {
			t.Completed = !t.Completed
		}
		result[i] = t
	}
	return result
}
