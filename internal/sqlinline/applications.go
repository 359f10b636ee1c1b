package sqlinline

const applicationColumns = `id, student_id, scholarship_id, status, applied_at,
    reviewed_by, reviewed_at, review_comments, rejection_reason,
    funded_by, funded_at, essays, documents`

const QInsertApplication = `--sql d4aac048-4a86-42e4-af35-2c688f2f03cf
insert into applications (
    id, student_id, scholarship_id, status, applied_at,
    review_comments, rejection_reason, essays, documents
)
values ($1::uuid, $2::uuid, $3::uuid, $4::text, $5::timestamptz,
        '', '', coalesce($6::jsonb, '[]'::jsonb), coalesce($7::jsonb, '[]'::jsonb));
`

const QSelectApplicationByID = `--sql a9336a1a-10e9-4356-97ca-c59c4472db9b
select ` + applicationColumns + `
from applications
where id = $1::uuid;
`

const QSelectApplicationByPair = `--sql 82014baf-8dda-4695-8adb-0e7e66176e93
select ` + applicationColumns + `
from applications
where student_id = $1::uuid and scholarship_id = $2::uuid;
`

const QListApplicationsByStudent = `--sql 501bfb18-5a62-4d43-adee-79a9cbd6e389
select ` + applicationColumns + `
from applications
where student_id = $1::uuid
order by applied_at desc;
`

const QListApplicationsByScholarship = `--sql 535408a7-9614-43ab-b2de-b5f921b2c0db
select ` + applicationColumns + `
from applications
where scholarship_id = $1::uuid
order by applied_at asc;
`

const QRecordReview = `--sql 5e32a633-fc8b-4231-aec6-90b36b351864
update applications
set status = $2::text,
    reviewed_by = $3::uuid,
    reviewed_at = $4::timestamptz,
    review_comments = $5::text,
    rejection_reason = $6::text
where id = $1::uuid;
`

const QMarkApplicationFunded = `--sql 6bcac5c3-9ac6-45a2-bc9c-390970bf9e75
update applications
set status = 'funded',
    funded_by = $2::uuid,
    funded_at = $3::timestamptz
where id = $1::uuid;
`

const QRevertApplicationFunding = `--sql 8fe681ea-23a0-4736-9939-49cdd915f064
update applications
set status = 'approved',
    funded_by = null,
    funded_at = null
where id = $1::uuid;
`

const QDeleteApplication = `--sql 3479f4ee-0440-4e8f-851e-abbedf36f7ce
delete from applications
where id = $1::uuid;
`
