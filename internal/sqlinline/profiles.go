package sqlinline

const QInsertStudentProfile = `--sql af0891b1-c9f4-4ee6-88d0-fb33db3c6981
insert into student_profiles (user_id, institution, program, year_of_study, gpa, financial, profile_complete)
values ($1::uuid, $2::text, $3::text, $4::int, $5::numeric, coalesce($6::jsonb, '{}'::jsonb), $7::bool);
`

const QSelectStudentProfile = `--sql 192501c5-acff-46d1-82d4-85b1109cfead
select user_id, institution, program, year_of_study, gpa::text, financial, profile_complete
from student_profiles
where user_id = $1::uuid;
`

const QUpdateStudentProfile = `--sql 40269050-6091-4c63-895c-d4a5670f42f2
update student_profiles
set institution = $2::text,
    program = $3::text,
    year_of_study = $4::int,
    gpa = $5::numeric,
    financial = coalesce($6::jsonb, financial),
    profile_complete = $7::bool
where user_id = $1::uuid;
`

const QInsertDonorProfile = `--sql a02a58ba-5fb8-4e65-99b2-6fe6fc6c1206
insert into donor_profiles (user_id, donor_type, total_donated_cents)
values ($1::uuid, $2::text, 0);
`

const QSelectDonorProfile = `--sql bd02182a-67c1-4f76-beb1-2ee27506c6c4
select user_id, donor_type, total_donated_cents
from donor_profiles
where user_id = $1::uuid;
`

const QAddDonorTotal = `--sql 4f756c40-80c5-48e9-93cf-a7cb776cfbd5
update donor_profiles
set total_donated_cents = greatest(total_donated_cents + $2::bigint, 0)
where user_id = $1::uuid;
`

const QInsertAdminProfile = `--sql 24d462fd-8ab9-43f2-9b09-b58e6a4504a3
insert into admin_profiles (user_id, permissions)
values ($1::uuid, $2::jsonb);
`
