package systems

import "time"

// Job 可分步执行的任务
// Step 执行一小步工作，返回 true 表示任务已完成
type Job interface {
	Step() (done bool)
}

// Budget 每次 Run 的工作预算
//
// MaxSteps 限制步数，MaxDuration 限制墙钟时间，任一耗尽即停止，
// 未完成的任务留到下一次 Run 继续。零值表示不限制该项。
type Budget struct {
	MaxSteps    int
	MaxDuration time.Duration
}

// WorkQueue 按预算分帧执行的任务队列
//
// 任务按入队顺序执行，队首任务完成后才开始下一个。
// 由外部 tick 驱动，不创建 goroutine。
type WorkQueue struct {
	jobs   []Job
	budget Budget
	now    func() time.Time

	lastSteps int
}

// NewWorkQueue 创建任务队列
func NewWorkQueue(budget Budget) *WorkQueue {
	return &WorkQueue{budget: budget, now: time.Now}
}

// SetClock 替换时钟，测试中用于模拟耗时
func (q *WorkQueue) SetClock(now func() time.Time) {
	q.now = now
}

// SetBudget 修改预算（配置热更新）
func (q *WorkQueue) SetBudget(b Budget) {
	q.budget = b
}

// Budget 当前预算
func (q *WorkQueue) Budget() Budget {
	return q.budget
}

// Enqueue 加入任务
func (q *WorkQueue) Enqueue(j Job) {
	q.jobs = append(q.jobs, j)
}

// Cancel 移除尚未完成的任务，返回是否找到
func (q *WorkQueue) Cancel(j Job) bool {
	for i, queued := range q.jobs {
		if queued == j {
			q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
			return true
		}
	}
	return false
}

// Len 未完成的任务数
func (q *WorkQueue) Len() int {
	return len(q.jobs)
}

// LastSteps 上一次 Run 执行的步数
func (q *WorkQueue) LastSteps() int {
	return q.lastSteps
}

// Run 在预算内执行任务，返回执行的步数
func (q *WorkQueue) Run() int {
	start := q.now()
	steps := 0
	for len(q.jobs) > 0 {
		if q.budget.MaxSteps > 0 && steps >= q.budget.MaxSteps {
			break
		}
		if q.budget.MaxDuration > 0 && steps > 0 && q.now().Sub(start) >= q.budget.MaxDuration {
			break
		}
		steps++
		if q.jobs[0].Step() {
			q.jobs = q.jobs[1:]
		}
	}
	q.lastSteps = steps
	return steps
}
