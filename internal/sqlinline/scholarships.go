package sqlinline

const QInsertScholarship = `--sql 59259c00-dc98-4627-9b66-67528933378d
insert into scholarships (
    id, creator_id, title, description, amount_cents, deadline, category,
    min_gpa, required_documents, eligible_institutions, eligible_programs,
    status, visible, rejection_reason,
    applicant_count, approved_count, funded_count, created_at, updated_at
)
values ($1::uuid, $2::uuid, $3::text, $4::text, $5::bigint, $6::timestamptz, $7::text,
        $8::numeric, $9::jsonb, $10::jsonb, $11::jsonb,
        $12::text, $13::bool, '',
        0, 0, 0, now(), now())
returning created_at, updated_at;
`

const scholarshipColumns = `id, creator_id, title, description, amount_cents, deadline, category,
    min_gpa::text, required_documents, eligible_institutions, eligible_programs,
    status, visible, rejection_reason, applicant_count, approved_count, funded_count,
    created_at, updated_at`

const QSelectScholarshipByID = `--sql 02b0b53b-44fe-42e8-a537-b1f4b85c1ec1
select ` + scholarshipColumns + `
from scholarships
where id = $1::uuid;
`

const QListScholarships = `--sql e1ce67eb-2e1f-4ef8-81e0-e2d8df9b2347
select ` + scholarshipColumns + `
from scholarships
where ($1::text = '' or category = $1::text)
  and ($2::text = '' or status = $2::text)
  and (not $3::bool or visible)
order by deadline asc
limit $4::int;
`

const QSetScholarshipStatus = `--sql e9de766f-90f5-4ec7-864f-0156f60fd60a
update scholarships
set status = $2::text,
    visible = $3::bool,
    rejection_reason = $4::text,
    updated_at = now()
where id = $1::uuid;
`

const QAddApplicantCount = `--sql bc34538e-72fe-4368-b2d9-dedfca5b6af0
update scholarships
set applicant_count = greatest(applicant_count + $2::int, 0),
    updated_at = now()
where id = $1::uuid;
`

const QAddApprovedCount = `--sql badfb499-9755-4bee-afed-34badd4e5ff8
update scholarships
set approved_count = greatest(approved_count + $2::int, 0),
    updated_at = now()
where id = $1::uuid;
`

const QAddFundedCount = `--sql 16887a75-1e93-4bc0-86a8-c6879c451e66
update scholarships
set funded_count = greatest(funded_count + $2::int, 0),
    updated_at = now()
where id = $1::uuid;
`

const QExpireScholarships = `--sql 3d8137ae-b7a3-49e9-a31f-d323730c8d27
update scholarships
set status = 'expired',
    visible = false,
    updated_at = now()
where status = 'active' and deadline < now()
returning id;
`
