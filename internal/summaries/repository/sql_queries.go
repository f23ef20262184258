package repository

const (
	createJob = `INSERT INTO video_jobs (user_id, video_url, video_title, transcript, summary, created_at)
					VALUES ($1, $2, $3, $4, $5, now())
					RETURNING *`

	getUserJobsQuery = `SELECT job_id, user_id, video_url, video_title, transcript, summary, created_at
					FROM video_jobs
					WHERE user_id = $1
					ORDER BY created_at DESC
					LIMIT $2 OFFSET $3`

	getUserJobsCount = `SELECT COUNT(job_id) FROM video_jobs WHERE user_id = $1`

	getStatsQuery = `SELECT
					(SELECT COUNT(*) FROM users) AS total_users,
					(SELECT COUNT(*) FROM video_jobs) AS total_jobs,
					(SELECT COUNT(*) FROM video_jobs WHERE created_at::date = now()::date) AS jobs_today,
					(SELECT COUNT(*) FROM video_jobs WHERE user_id = $1) AS user_jobs,
					COALESCE((SELECT AVG(LENGTH(transcript))::int FROM video_jobs WHERE transcript IS NOT NULL), 0) AS avg_transcript_length,
					COALESCE((SELECT AVG(LENGTH(summary))::int FROM video_jobs WHERE summary IS NOT NULL), 0) AS avg_summary_length`

	getUserActivityQuery = `SELECT u.user_id, u.username, u.email, u.created_at,
					COUNT(vj.job_id) AS job_count,
					MAX(vj.created_at) AS last_job_date
					FROM users u
					LEFT JOIN video_jobs vj ON u.user_id = vj.user_id
					GROUP BY u.user_id, u.username, u.email, u.created_at
					ORDER BY u.created_at DESC`

	getRecentJobsQuery = `SELECT vj.job_id, vj.video_title, vj.video_url, vj.created_at, u.username,
					COALESCE(LENGTH(vj.transcript), 0) AS transcript_length,
					COALESCE(LENGTH(vj.summary), 0) AS summary_length
					FROM video_jobs vj
					JOIN users u ON vj.user_id = u.user_id
					ORDER BY vj.created_at DESC
					LIMIT $1`

	getDailyCountsQuery = `SELECT created_at::date AS date, COUNT(*) AS count
					FROM video_jobs
					WHERE created_at >= now() - ($1 || ' days')::interval
					GROUP BY created_at::date
					ORDER BY date DESC`
)
